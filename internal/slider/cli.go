package slider

import (
	"path"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/sliderctl/internal/observability"
	"github.com/danmuck/sliderctl/internal/remote"
)

// cli composes and runs Slider CLI command lines on one target. Installer
// and Controller share it so every Slider invocation is logged and timed
// the same way.
type cli struct {
	target      remote.Target
	installRoot string
}

func (c cli) bin() string {
	return path.Join(c.installRoot, "bin", "slider")
}

// run executes `slider <verb> <args...>` and returns its stdout. The verb
// labels logs and metrics; failures keep the exit code reachable through
// remote.ExitCode.
func (c cli) run(verb string, args ...string) (string, error) {
	words := append([]string{verb}, args...)
	command := remote.Line(c.bin(), words...)

	log.Debug().
		Str("host", c.target.Host()).
		Str("verb", verb).
		Str("cmd", command).
		Msg("slider exec")

	start := time.Now()
	output, err := c.target.Execute(command)
	observability.RecordSliderCommand(verb, err, time.Since(start))

	if err != nil {
		if code, ok := remote.ExitCode(err); ok {
			log.Debug().
				Str("host", c.target.Host()).
				Str("verb", verb).
				Int("exit", code).
				Msg("slider exec failed")
		}
		return output, err
	}
	return output, nil
}
