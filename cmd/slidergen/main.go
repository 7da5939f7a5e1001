package main

import (
	"flag"
	"log"

	"github.com/danmuck/sliderctl/internal/config"
)

func main() {
	kind := flag.String("kind", "config", "template kind: config|appconfig|resources")
	output := flag.String("output", "", "output path for the template")
	validate := flag.Bool("validate", false, "validate an existing sliderctl config file")
	input := flag.String("input", "config.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite an existing file")
	flag.Parse()

	if *validate {
		if _, err := config.Load(*input); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated sliderctl config at %s", *input)
		return
	}

	target := *output
	if target == "" {
		switch *kind {
		case "config":
			target = "config.toml"
		case "appconfig":
			target = "conf/appConfig.json"
		case "resources":
			target = "conf/resources.json"
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
	}

	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s template to %s", *kind, target)
}
