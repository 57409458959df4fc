package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/0xef53/vmmblk/block"
	"github.com/0xef53/vmmblk/devices/virtio"

	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var cmdProbe = &cli.Command{
	Name:      "probe",
	Usage:     "create all configured block devices in order and print their properties",
	ArgsUsage: "[DRIVES_FILE]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "drives", Aliases: []string{"d"}, Usage: "path to the YAML `file` with drives (overrides the config)"},
		&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "show output in the JSON format"},
		&cli.BoolFlag{Name: "skip-failed", Usage: "skip devices that cannot be created instead of aborting"},
	},
	Action: func(c *cli.Context) error {
		appConf := appConfFrom(c)

		drivesFile := resolveDrivesFile(c.String("drives"), c.Args().First(), appConf.Common.DrivesFile)

		configs, err := block.LoadDrivesFile(drivesFile, appConf.Builder.CacheType)
		if err != nil {
			return err
		}

		builder := block.NewBlockBuilder()
		defer builder.Release()

		if err := buildAll(builder, configs, appConf.Builder.SkipFailed || c.Bool("skip-failed")); err != nil {
			return err
		}

		infos, err := inspectDevices(c.Context, builder.Devices())
		if err != nil {
			return err
		}

		if c.Bool("json") {
			b, err := json.MarshalIndent(infos, "", "    ")
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", b)

			return nil
		}

		if len(infos) == 0 {
			fmt.Println("No one block device configured")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		fmt.Fprintln(w, "#\tID\tUUID\tPATH\tFORMAT\tCACHE\tRO\tSIZE")

		for _, i := range infos {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%t\t%s\n", i.Index, i.ID, i.UUID, i.Path, i.Format, i.Cache, i.ReadOnly, strconv.FormatUint(i.Size, 10))
		}

		return w.Flush()
	},
}

// resolveDrivesFile picks the drives file: the --drives flag first,
// then the positional argument, then the configured path.
func resolveDrivesFile(flagValue, arg, configured string) string {
	for _, p := range []string{flagValue, arg} {
		if p = strings.TrimSpace(p); len(p) > 0 {
			return p
		}
	}

	return configured
}

// buildAll inserts configs in order. Unless skipFailed is set,
// the first failure aborts the whole sequence.
func buildAll(builder *block.BlockBuilder, configs []block.BlockDeviceConfig, skipFailed bool) error {
	for _, cfg := range configs {
		if err := builder.Insert(cfg); err != nil {
			if !skipFailed {
				return err
			}

			log.WithField("id", cfg.BlockID).Warnf("Device skipped: %s", err)
		}
	}

	return nil
}

type deviceInfo struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	UUID     string `json:"uuid,omitempty"`
	Path     string `json:"path,omitempty"`
	Format   string `json:"format,omitempty"`
	Cache    string `json:"cache,omitempty"`
	ReadOnly bool   `json:"read_only"`
	Size     uint64 `json:"size"`
}

// inspectDevices reads device properties concurrently, one goroutine per handle.
func inspectDevices(ctx context.Context, handles []*block.Handle) ([]deviceInfo, error) {
	infos := make([]deviceInfo, len(handles))

	group, ctx := errgroup.WithContext(ctx)

	for idx, h := range handles {
		idx := idx // per-iteration copy (go.mod targets go 1.21 loop semantics)

		h, err := h.Acquire()
		if err != nil {
			group.Go(func() error { return err })
			break
		}

		group.Go(func() error {
			defer h.Release()

			if err := ctx.Err(); err != nil {
				return err
			}

			return h.Do(func(d block.Device) error {
				info := deviceInfo{
					Index: idx,
					ID:    d.ID(),
				}

				if b, ok := d.(*virtio.Block); ok {
					info.UUID = b.UUID()
					info.Path = b.Path()
					info.Format = b.ImageType().String()
					info.Cache = b.CacheType().String()
					info.ReadOnly = b.ReadOnly()
					info.Size = b.Size()
				}

				infos[idx] = info

				return nil
			})
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return infos, nil
}
