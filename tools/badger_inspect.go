package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sms-forwarder/repositories"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan, empty for records and outbox")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Sender", "Receiver", "Body", "Attempts"})
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

	prefixes := []string{"record:", repositories.OutboxPrefix}
	if *prefix != "" {
		prefixes = []string{*prefix}
	}

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for _, p := range prefixes {
			prefixBytes := []byte(p)
			for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
				item := it.Item()
				key := string(item.KeyCopy(nil))
				err := item.Value(func(v []byte) error {
					table.Append(toRow(key, v))
					return nil
				})
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func toRow(key string, value []byte) []string {
	if strings.HasPrefix(key, repositories.OutboxPrefix) {
		entry, err := repositories.UnmarshalOutboxEntry(key, value)
		if err != nil {
			return []string{key, "OUTBOX", "-", "-", err.Error(), "-"}
		}
		m := entry.Message
		return []string{key, "OUTBOX", m.Sender, m.ReceivingIdentity, truncate(m.Body), strconv.Itoa(entry.Attempts)}
	}
	record, err := repositories.UnmarshalRecord(value)
	if err != nil {
		return []string{key, "RAW", "-", "-", fmt.Sprintf("Size: %d bytes", len(value)), "-"}
	}
	return []string{key, "RECORD", record.Sender, record.ReceivingIdentity, truncate(record.Body), "-"}
}

func truncate(body string) string {
	runes := []rune(strings.ReplaceAll(body, "\n", " "))
	if len(runes) > 40 {
		return string(runes[:40]) + "…"
	}
	return string(runes)
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
