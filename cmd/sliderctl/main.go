package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danmuck/sliderctl/internal/config"
	"github.com/danmuck/sliderctl/internal/observability"
	"github.com/danmuck/sliderctl/internal/slider"
)

const usage = `usage: sliderctl [-config <path>] <command> [args]

commands:
  install              install the slider distribution and the application package
  uninstall            delete the application package registration
  deploy               install everything, create the instance, wait until running
  create               create the application instance
  status               print one status snapshot
  stop [-force]        stop the instance
  destroy              destroy the stopped instance
  cleanup [-uninstall] best-effort stop and destroy
  flex <component> <count>
                       declare a new desired live count for one component
  wait running|stopped
  wait live <component> <count>
                       poll status until the target state is observed
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "sliderctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("sliderctl", flag.ContinueOnError)
	configPath := flags.String("config", "config.toml", "path to the sliderctl TOML config")
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("no command given")
	}

	observability.InitLogger("sliderctl")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	target, err := config.Target(cfg)
	if err != nil {
		return err
	}
	installer, err := slider.NewInstaller(target, config.InstallerConfig(cfg))
	if err != nil {
		return err
	}
	controller, err := slider.NewController(target, config.ControllerConfig(cfg))
	if err != nil {
		return err
	}

	command := flags.Arg(0)
	rest := flags.Args()[1:]

	switch command {
	case "install":
		return runInstall(installer, cfg)
	case "uninstall":
		return installer.UninstallPackage(cfg.Package.Name)
	case "deploy":
		return runDeploy(installer, controller, cfg)
	case "create":
		return controller.Create(cfg.Cluster.Name, cfg.Cluster.Template, cfg.Cluster.Resources)
	case "status":
		return runStatus(controller, cfg)
	case "stop":
		return runStop(controller, cfg, rest)
	case "destroy":
		return controller.Destroy(cfg.Cluster.Name)
	case "cleanup":
		return runCleanup(installer, controller, cfg, rest)
	case "flex":
		return runFlex(controller, cfg, rest)
	case "wait":
		return runWait(controller, cfg, rest)
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runInstall(installer *slider.Installer, cfg config.Config) error {
	if cfg.Slider.Archive != "" {
		if err := installer.Install(cfg.Slider.Archive); err != nil {
			return err
		}
	}
	if cfg.Package.Artifact == "" {
		return nil
	}
	_, err := installer.InstallPackage(cfg.Package.Artifact, cfg.Package.Name)
	return err
}

func runDeploy(installer *slider.Installer, controller *slider.Controller, cfg config.Config) error {
	deployment, err := slider.NewDeployment(installer, controller, config.DeploymentConfig(cfg))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Cluster.WaitTimeout)
	defer cancel()

	status, err := deployment.Up(ctx)
	if err != nil {
		return err
	}
	printStatus(status)
	return nil
}

func runStatus(controller *slider.Controller, cfg config.Config) error {
	status, present, err := controller.Status(cfg.Cluster.Name)
	if err != nil {
		return err
	}
	if !present {
		fmt.Printf("%s: not running\n", cfg.Cluster.Name)
		return nil
	}
	printStatus(status)
	return nil
}

func runStop(controller *slider.Controller, cfg config.Config, args []string) error {
	flags := flag.NewFlagSet("stop", flag.ContinueOnError)
	force := flags.Bool("force", false, "force the stop")
	if err := flags.Parse(args); err != nil {
		return err
	}
	return controller.Stop(cfg.Cluster.Name, *force)
}

func runCleanup(installer *slider.Installer, controller *slider.Controller, cfg config.Config, args []string) error {
	flags := flag.NewFlagSet("cleanup", flag.ContinueOnError)
	uninstall := flags.Bool("uninstall", false, "also delete the package registration")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if !*uninstall {
		return controller.Cleanup(cfg.Cluster.Name)
	}

	deployCfg := config.DeploymentConfig(cfg)
	deployCfg.UninstallPackageOnTeardown = true
	deployment, err := slider.NewDeployment(installer, controller, deployCfg)
	if err != nil {
		return err
	}
	return deployment.Teardown()
}

func runFlex(controller *slider.Controller, cfg config.Config, args []string) error {
	if len(args) != 2 {
		return errors.New("flex needs <component> <count>")
	}
	count, err := strconv.Atoi(args[1])
	if err != nil || count < 0 {
		return fmt.Errorf("flex count must be a non-negative integer, got %q", args[1])
	}
	return controller.Flex(cfg.Cluster.Name, args[0], count)
}

func runWait(controller *slider.Controller, cfg config.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("wait needs a goal: running, stopped, or live <component> <count>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Cluster.WaitTimeout)
	defer cancel()

	switch strings.ToLower(args[0]) {
	case "running":
		status, err := controller.WaitRunning(ctx, cfg.Cluster.Name)
		if err != nil {
			return err
		}
		printStatus(status)
		return nil
	case "stopped":
		return controller.WaitStopped(ctx, cfg.Cluster.Name)
	case "live":
		if len(args) != 3 {
			return errors.New("wait live needs <component> <count>")
		}
		count, err := strconv.Atoi(args[2])
		if err != nil || count < 0 {
			return fmt.Errorf("wait live count must be a non-negative integer, got %q", args[2])
		}
		status, err := controller.WaitLive(ctx, cfg.Cluster.Name, args[1], count)
		if err != nil {
			return err
		}
		printStatus(status)
		return nil
	default:
		return fmt.Errorf("unknown wait goal %q", args[0])
	}
}

func printStatus(status slider.ClusterStatus) {
	fmt.Printf("instance: %s\n", status.Name)
	fmt.Printf("coordinator: %s\n", status.CoordinatorHost())
	fmt.Printf("workers (%d): %s\n",
		status.LiveCount(slider.ComponentWorker),
		strings.Join(status.WorkerHosts(), ", "),
	)
	for component := range status.Live {
		if component == slider.ComponentCoordinator || component == slider.ComponentWorker {
			continue
		}
		fmt.Printf("%s: %d live\n", component, status.LiveCount(component))
	}
}
