// Badger inspector: dumps the message, pending and unread keyspaces as
// tables for local debugging.
//
// Usage:
//
//	go run ./tools -db ./data -prefix msg:
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

type storedMessage struct {
	ID         string `json:"id"`
	Room       string `json:"room"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
	At         int64  `json:"at"`
}

type storedPending struct {
	Message  storedMessage `json:"message"`
	QueuedAt int64         `json:"queued_at"`
}

func main() {
	dbPath := flag.String("db", "./data", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, pending:, unread:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithLoggingLevel(badger.ERROR).
		WithBypassLockGuard(true))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Cyan.Printf("Scanning prefix %q in %s\n\n", *prefix, *dbPath)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Room", "Time", "Sender", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				table.Append(toRow(key, v))
				rows++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Error while scanning: ", err)
	}

	table.Render()
	color.Green.Printf("\n%d entries\n", rows)
}

func toRow(key string, value []byte) []string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		var m storedMessage
		if err := json.Unmarshal(value, &m); err != nil {
			return rawRow(key, value)
		}
		return []string{key, m.Room, formatNano(m.At), m.SenderName, truncate(m.Content, 48)}
	case strings.HasPrefix(key, "pending:"):
		var p storedPending
		if err := json.Unmarshal(value, &p); err != nil {
			return rawRow(key, value)
		}
		detail := fmt.Sprintf("queued %s: %s", formatNano(p.QueuedAt), truncate(p.Message.Content, 40))
		return []string{key, p.Message.Room, formatNano(p.Message.At), p.Message.SenderName, detail}
	case strings.HasPrefix(key, "unread:"):
		return []string{key, "-", "-", "-", "count=" + string(value)}
	default:
		return rawRow(key, value)
	}
}

func rawRow(key string, value []byte) []string {
	return []string{key, "-", "-", "-", fmt.Sprintf("%d bytes", len(value))}
}

func formatNano(nano int64) string {
	return time.Unix(0, nano).UTC().Format("15:04:05")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
