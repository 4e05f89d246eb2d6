package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/livekit/rtprx/pkg/config"
	"github.com/livekit/rtprx/pkg/receiver"
)

type countersSource interface {
	Counters() receiver.CountersSnapshot
	Delivered() uint64
	TelephoneEvents() uint64
	FeedbackSent() uint64
}

func printConfig(c *cli.Context) error {
	conf, err := getConfig(c)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func helpVerbose(c *cli.Context) error {
	generatedFlags, err := config.GenerateCLIFlags(baseFlags, false)
	if err != nil {
		return err
	}

	c.App.Flags = append(baseFlags, generatedFlags...)
	return cli.ShowAppHelp(c)
}

func printCounters(w io.Writer, src countersSource) error {
	counters := src.Counters()

	table := tablewriter.NewWriter(w)
	table.SetRowLine(true)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Counter", "Value"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})

	table.AppendBulk([][]string{
		{"Packets received", humanize.Comma(int64(counters.PacketsReceived))},
		{"Bytes received", humanize.Bytes(counters.BytesReceived)},
		{"Bad", humanize.Comma(int64(counters.Bad))},
		{"Discarded", humanize.Comma(int64(counters.Discarded))},
		{"Out of time", humanize.Comma(int64(counters.OutOfTime))},
		{"Duplicates", humanize.Comma(int64(counters.Duplicates))},
		{"NACKs", humanize.Comma(int64(counters.Nacks))},
		{"Delivered", humanize.Comma(int64(src.Delivered()))},
		{"Telephone events", humanize.Comma(int64(src.TelephoneEvents()))},
		{"Feedback sent", humanize.Comma(int64(src.FeedbackSent()))},
	})

	table.Render()
	return nil
}

func writeStatsFile(path string, src countersSource) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return printCounters(f, src)
}
