package main

import (
	"fmt"
	"io"
	"room-relay/repositories"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	flagInspectDB     string
	flagInspectPrefix string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump the relay database (the relay must be stopped)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := badger.Open(badger.DefaultOptions(flagInspectDB).WithLoggingLevel(badger.ERROR))
		if err != nil {
			return fmt.Errorf("error while opening Badger: %w", err)
		}
		defer func() { _ = db.Close() }()
		return inspect(db, flagInspectPrefix, cmd.OutOrStdout())
	},
}

func init() {
	inspectCmd.Flags().StringVar(&flagInspectDB, "db", "./data", "path to the badger directory")
	inspectCmd.Flags().StringVar(&flagInspectPrefix, "prefix", "", "only keys with this prefix (room: or user:)")
}

// inspect prints every record under prefix. Password hashes are never shown.
func inspect(db *badger.DB, prefix string, w io.Writer) error {
	table := newTable(w, "Key", "Type", "Timestamp", "Detail")
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(val []byte) error {
				table.Append(inspectRow(key, val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}

func inspectRow(key string, val []byte) []string {
	switch {
	case strings.HasPrefix(key, "room:"):
		var room repositories.DiskRoom
		if err := msgpack.Unmarshal(val, &room); err != nil {
			return []string{key, "ROOM", "", "Error: unmarshal failed"}
		}
		return []string{key, "ROOM", time.Unix(0, room.CreatedAt).UTC().Format(time.RFC3339), room.Name}
	case strings.HasPrefix(key, "user:"):
		var user repositories.User
		if err := msgpack.Unmarshal(val, &user); err != nil {
			return []string{key, "USER", "", "Error: unmarshal failed"}
		}
		return []string{key, "USER", user.CreatedAt.UTC().Format(time.RFC3339), user.ID}
	default:
		return []string{key, "UNKNOWN", "", fmt.Sprintf("%d bytes", len(val))}
	}
}
