package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/0xef53/vmmblk/internal/appconf"
	"github.com/0xef53/vmmblk/internal/logging"

	cli "github.com/urfave/cli/v2"
)

const Version = "0.3.1"

var (
	Error = log.New(os.Stdout, "Error: ", 0)
)

func main() {
	app := cli.NewApp()

	app.Name = "blkprobe"
	app.Usage = "create the configured block devices of a virtual machine and show them"
	app.HideHelpCommand = true

	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: appconf.DefaultConfigFile, Usage: "path to the configuration `file`"},
		&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
	}

	app.Before = func(c *cli.Context) error {
		appConf, err := loadConfig(c.String("config"))
		if err != nil {
			return err
		}

		level := appConf.Log.Level
		if c.Bool("debug") {
			level = "debug"
		}

		if err := logging.Setup(level, appConf.Log.JSON); err != nil {
			return err
		}

		c.App.Metadata = map[string]interface{}{"appconf": appConf}

		return nil
	}

	app.Commands = []*cli.Command{
		cmdProbe,
		{
			Name:  "version",
			Usage: "print the version information",
			Action: func(c *cli.Context) error {
				fmt.Printf("v%s, (built %s)\n", Version, runtime.Version())
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		Error.Fatalln(err)
	}
}

// loadConfig reads the configuration file. A missing file
// at the default location is not an error.
func loadConfig(p string) (*appconf.Config, error) {
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) && p == appconf.DefaultConfigFile {
			return appconf.DefaultConfig(), nil
		}
		return nil, err
	}

	return appconf.NewConfig(p)
}

func appConfFrom(c *cli.Context) *appconf.Config {
	if v, ok := c.App.Metadata["appconf"].(*appconf.Config); ok {
		return v
	}

	return appconf.DefaultConfig()
}
