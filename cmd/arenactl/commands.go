package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/okian/arena/internal/adapters/codec"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/types"
)

// mutator marks commands whose changes must be flushed to the store.
type mutator interface {
	mutates() bool
}

func (*createArenaCmd) mutates() bool { return true }
func (*renameArenaCmd) mutates() bool { return true }
func (*addItemCmd) mutates() bool { return true }
func (*renameItemCmd) mutates() bool { return true }
func (*setCostCmd) mutates() bool { return true }
func (*deleteItemCmd) mutates() bool { return true }
func (*recordCmd) mutates() bool { return true }
func (*deleteOutcomeCmd) mutates() bool { return true }
func (*importCmd) mutates() bool { return true }

type command struct {
	name, short, long string
	data              any
}

func (c *cli) commands() []command {
	return []command{
		{"arenas", "List arenas", "List every arena with its item and outcome counts.", &arenasCmd{cli: c}},
		{"create-arena", "Create an arena", "Create an empty arena. The key is derived from the name.", &createArenaCmd{cli: c}},
		{"rename-arena", "Rename an arena", "Change an arena's display name. The key stays.", &renameArenaCmd{cli: c}},
		{"add-item", "Add an item", "Add an item at the default rating, optionally with a cost.", &addItemCmd{cli: c}},
		{"rename-item", "Rename an item", "Change an item's display name.", &renameItemCmd{cli: c}},
		{"set-cost", "Set an item's cost", "Replace an item's cost with a positive number.", &setCostCmd{cli: c}},
		{"delete-item", "Delete an item", "Delete an item and every outcome it took part in.", &deleteItemCmd{cli: c}},
		{"record", "Record an outcome", "Record which of two items won a comparison.", &recordCmd{cli: c}},
		{"history", "Show match history", "List outcomes in recording order.", &historyCmd{cli: c}},
		{"delete-outcome", "Delete an outcome", "Delete an outcome by id or by 1-based history position.", &deleteOutcomeCmd{cli: c}},
		{"leaderboard", "Show the leaderboard", "Show ranked items with ratings, cost and adjusted score.", &leaderboardCmd{cli: c}},
		{"pareto", "Show the Pareto frontier", "Show the items no other item beats on both rating and cost.", &paretoCmd{cli: c}},
		{"export", "Export all arenas", "Write every arena as JSON or YAML.", &exportCmd{cli: c}},
		{"import", "Import arenas", "Replace every arena with the contents of a JSON or YAML file.", &importCmd{cli: c}},
	}
}

func (c *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
}

type arenasCmd struct{ cli *cli }

func (cmd *arenasCmd) Execute([]string) error {
	arenas, err := cmd.cli.svc.ListArenas(cmd.cli.ctx)
	if err != nil {
		return err
	}
	tw := cmd.cli.table()
	fmt.Fprintln(tw, "KEY\tNAME\tITEMS\tOUTCOMES")
	for _, a := range arenas {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", a.Key, a.Name, a.Items, a.Outcomes)
	}
	return tw.Flush()
}

type createArenaCmd struct {
	cli  *cli
	Args struct {
		Name string `positional-arg-name:"name"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *createArenaCmd) Execute([]string) error {
	a, err := cmd.cli.svc.CreateArena(cmd.cli.ctx, cmd.Args.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.cli.out, "created arena %s\n", a.Key)
	return nil
}

type renameArenaCmd struct {
	cli  *cli
	Args struct {
		Arena string `positional-arg-name:"arena"`
		Name  string `positional-arg-name:"name"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *renameArenaCmd) Execute([]string) error {
	a, err := cmd.cli.svc.RenameArena(cmd.cli.ctx, cmd.Args.Arena, cmd.Args.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.cli.out, "renamed arena %s to %q\n", a.Key, a.Name)
	return nil
}

type addItemCmd struct {
	cli  *cli
	Cost string `long:"cost" description:"positive cost; omit for none"`
	Args struct {
		Arena string `positional-arg-name:"arena"`
		Name  string `positional-arg-name:"name"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *addItemCmd) Execute([]string) error {
	cost := model.NoCost()
	if cmd.Cost != "" {
		var err error
		if cost, err = model.ParseCost(cmd.Cost); err != nil {
			return err
		}
	}
	it, err := cmd.cli.svc.AddItem(cmd.cli.ctx, cmd.Args.Arena, cmd.Args.Name, cost)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.cli.out, "added %s %q (cost %s)\n", it.ID, it.Name, it.Cost)
	return nil
}

type renameItemCmd struct {
	cli  *cli
	Args struct {
		Arena string `positional-arg-name:"arena"`
		Item  string `positional-arg-name:"item"`
		Name  string `positional-arg-name:"name"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *renameItemCmd) Execute([]string) error {
	it, err := cmd.cli.svc.RenameItem(cmd.cli.ctx, cmd.Args.Arena, cmd.Args.Item, cmd.Args.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.cli.out, "renamed %s to %q\n", it.ID, it.Name)
	return nil
}

type setCostCmd struct {
	cli  *cli
	Args struct {
		Arena string `positional-arg-name:"arena"`
		Item  string `positional-arg-name:"item"`
		Cost  string `positional-arg-name:"cost"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *setCostCmd) Execute([]string) error {
	cost, err := model.ParseCost(cmd.Args.Cost)
	if err != nil {
		return err
	}
	v, _ := cost.Value()
	it, err := cmd.cli.svc.SetItemCost(cmd.cli.ctx, cmd.Args.Arena, cmd.Args.Item, v)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.cli.out, "%s now costs %s\n", it.ID, it.Cost)
	return nil
}

type deleteItemCmd struct {
	cli  *cli
	Args struct {
		Arena string `positional-arg-name:"arena"`
		Item  string `positional-arg-name:"item"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *deleteItemCmd) Execute([]string) error {
	if err := cmd.cli.svc.DeleteItem(cmd.cli.ctx, cmd.Args.Arena, cmd.Args.Item); err != nil {
		return err
	}
	fmt.Fprintf(cmd.cli.out, "deleted %s\n", cmd.Args.Item)
	return nil
}

type recordCmd struct {
	cli  *cli
	Args struct {
		Arena  string `positional-arg-name:"arena"`
		Item1  string `positional-arg-name:"item1"`
		Item2  string `positional-arg-name:"item2"`
		Winner string `positional-arg-name:"winner"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *recordCmd) Execute([]string) error {
	o, _, err := cmd.cli.svc.RecordOutcome(cmd.cli.ctx, cmd.Args.Arena, cmd.Args.Item1, cmd.Args.Item2, cmd.Args.Winner, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.cli.out, "recorded %s: %s beat %s\n", o.ID, o.Winner, o.Loser())
	return nil
}

type historyCmd struct {
	cli  *cli
	Args struct {
		Arena string `positional-arg-name:"arena"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *historyCmd) Execute([]string) error {
	history, err := cmd.cli.svc.History(cmd.cli.ctx, cmd.Args.Arena)
	if err != nil {
		return err
	}
	tw := cmd.cli.table()
	fmt.Fprintln(tw, "#\tAT\tITEM 1\tITEM 2\tWINNER\tID")
	for _, h := range history {
		at := "-"
		if !h.At.IsZero() {
			at = h.At.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", h.Position, at, h.Item1Name, h.Item2Name, h.WinnerName, h.OutcomeID)
	}
	return tw.Flush()
}

type deleteOutcomeCmd struct {
	cli  *cli
	Args struct {
		Arena string `positional-arg-name:"arena"`
		Ref   string `positional-arg-name:"id-or-position"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *deleteOutcomeCmd) Execute([]string) error {
	if pos, err := strconv.Atoi(cmd.Args.Ref); err == nil {
		o, err := cmd.cli.svc.DeleteOutcomeAt(cmd.cli.ctx, cmd.Args.Arena, pos)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.cli.out, "deleted outcome %d (%s)\n", pos, o.ID)
		return nil
	}
	if err := cmd.cli.svc.DeleteOutcome(cmd.cli.ctx, cmd.Args.Arena, cmd.Args.Ref); err != nil {
		return err
	}
	fmt.Fprintf(cmd.cli.out, "deleted outcome %s\n", cmd.Args.Ref)
	return nil
}

type leaderboardCmd struct {
	cli   *cli
	Sort  string `long:"sort" choice:"elo" choice:"glicko" choice:"adjusted" choice:"cost" choice:"name" default:"elo" description:"sort key"`
	Order string `long:"order" choice:"desc" choice:"asc" default:"desc" description:"sort order"`
	Args  struct {
		Arena string `positional-arg-name:"arena"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *leaderboardCmd) Execute([]string) error {
	entries, err := cmd.cli.svc.Leaderboard(cmd.cli.ctx, cmd.Args.Arena, cmd.Sort, cmd.Order)
	if err != nil {
		return err
	}
	return cmd.cli.writeEntries(entries)
}

type paretoCmd struct {
	cli  *cli
	Args struct {
		Arena string `positional-arg-name:"arena"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *paretoCmd) Execute([]string) error {
	entries, err := cmd.cli.svc.Pareto(cmd.cli.ctx, cmd.Args.Arena)
	if err != nil {
		return err
	}
	return cmd.cli.writeEntries(entries)
}

func (c *cli) writeEntries(entries []types.Entry) error {
	tw := c.table()
	fmt.Fprintln(tw, "RANK\tID\tNAME\tELO\tGLICKO\tRD\tCOST\tADJUSTED\tPARETO")
	for _, e := range entries {
		adjusted := "N/A"
		if e.Adjusted != nil {
			adjusted = strconv.FormatFloat(*e.Adjusted, 'f', 3, 64)
		}
		pareto := ""
		if e.Pareto {
			pareto = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.0f\t%.0f\t%.0f\t%s\t%s\t%s\n",
			e.Rank, e.ItemID, e.Name, e.Elo, e.Glicko, e.RD, model.CostFromPtr(e.Cost), adjusted, pareto)
	}
	return tw.Flush()
}

type exportCmd struct {
	cli    *cli
	Format string `short:"f" long:"format" choice:"json" choice:"yaml" description:"output format; defaults to the output extension, else json"`
	Output string `short:"o" long:"output" description:"write to this file instead of stdout"`
}

func (cmd *exportCmd) Execute([]string) error {
	f, err := pickFormat(cmd.Format, cmd.Output)
	if err != nil {
		return err
	}
	data, err := cmd.cli.svc.Export(cmd.cli.ctx, f)
	if err != nil {
		return err
	}
	if cmd.Output == "" {
		_, err = cmd.cli.out.Write(data)
		return err
	}
	return os.WriteFile(cmd.Output, data, 0o644)
}

type importCmd struct {
	cli    *cli
	Format string `short:"f" long:"format" choice:"json" choice:"yaml" description:"input format; defaults to the file extension"`
	Args   struct {
		File string `positional-arg-name:"file"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *importCmd) Execute([]string) error {
	f, err := pickFormat(cmd.Format, cmd.Args.File)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(cmd.Args.File)
	if err != nil {
		return err
	}
	res, err := cmd.cli.svc.Import(cmd.cli.ctx, f, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.cli.out, "imported %d arenas, %d items, %d outcomes (%d dropped)\n", res.Arenas, res.Items, res.Outcomes, res.Dropped)
	return nil
}

// pickFormat prefers an explicit format, then the path extension, then JSON.
func pickFormat(explicit, path string) (codec.Format, error) {
	if explicit != "" {
		return codec.ParseFormat(explicit)
	}
	if path != "" {
		if f, err := codec.FormatFromPath(path); err == nil {
			return f, nil
		}
	}
	return codec.FormatJSON, nil
}
