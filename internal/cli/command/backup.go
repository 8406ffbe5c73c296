package command

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

// latestBackup selects the newest backup in restore.
const latestBackup = "latest"

// BackupCommand returns the backup subcommand group.
func BackupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Backup and restore the snippet document",
		Subcommands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Write a backup of all snippets",
				Action: backupCreate,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List backups, oldest first",
				Action:  backupList,
			},
			{
				Name:      "restore",
				Usage:     "Replace all snippets with a backup",
				ArgsUsage: "BACKUP_ID|latest",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Do not ask for confirmation",
					},
				},
				Action: backupRestore,
			},
		},
	}
}

func backupCreate(c *cli.Context) error {
	rt, err := RuntimeFrom(c)
	if err != nil {
		return err
	}
	store, err := rt.Store(c.Context)
	if err != nil {
		return err
	}
	mgr, err := rt.Backups()
	if err != nil {
		return err
	}

	snippets, err := store.FetchAll(c.Context)
	if err != nil {
		return err
	}
	info, err := mgr.Create(snippets, store.Document().Location())
	if err != nil {
		return err
	}
	if removed, err := mgr.Prune(); err != nil {
		rt.Logger.Warn("prune backups", "error", err)
	} else if removed > 0 {
		rt.Logger.Debug("old backups removed", "count", removed)
	}

	if rt.Structured() {
		return rt.Formatter().Format(rt.Out(), info)
	}
	fmt.Fprintf(rt.Out(), "Backup %s created (%d snippets, %s)\n",
		info.ID, info.SnippetCount, humanize.Bytes(uint64(info.Size)))
	return nil
}

func backupList(c *cli.Context) error {
	rt, err := RuntimeFrom(c)
	if err != nil {
		return err
	}
	mgr, err := rt.Backups()
	if err != nil {
		return err
	}

	infos, err := mgr.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 && !rt.Structured() {
		fmt.Fprintln(rt.Out(), "No backups found.")
		return nil
	}
	return rt.Formatter().Format(rt.Out(), infos)
}

func backupRestore(c *cli.Context) error {
	id, err := requireArg(c, 0, "BACKUP_ID")
	if err != nil {
		return err
	}
	rt, err := RuntimeFrom(c)
	if err != nil {
		return err
	}
	mgr, err := rt.Backups()
	if err != nil {
		return err
	}

	if id == latestBackup {
		info, err := mgr.Latest()
		if err != nil {
			return err
		}
		id = info.ID
	}

	// Verify before asking, so a corrupt or locked backup fails early.
	snippets, _, err := mgr.Open(id)
	if err != nil {
		return err
	}
	if !c.Bool("force") && !confirm(rt, fmt.Sprintf("Replace all snippets with backup %s (%d snippets)?", id, len(snippets))) {
		fmt.Fprintln(rt.Out(), "Aborted.")
		return nil
	}

	store, err := rt.Store(c.Context)
	if err != nil {
		return err
	}
	info, err := mgr.Restore(c.Context, id, store.Document())
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.Out(), "Restored %d snippets from %s\n", info.SnippetCount, info.ID)
	return nil
}
