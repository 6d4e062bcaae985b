// Command paradoxdump opens a single Paradox artifact and prints a
// human-readable summary to stdout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ulysses-xu/paradox"
)

func main() {
	sample := flag.Int("sample", 10, "number of table rows to print (0 for all)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: paradoxdump [-sample N] <file>")
		os.Exit(2)
	}

	path := flag.Arg(0)
	file, err := paradox.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "paradoxdump: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %s, %d bytes\n", path, file.Format, file.Size)

	switch details := file.Details.(type) {
	case paradox.TableDetails:
		dumpTable(details.Table, *sample)
	case paradox.QueryDetails:
		fmt.Printf("encoding: %s\n\n%s\n", details.EncodingUsed, details.Text)
	case paradox.TableViewDetails:
		dumpTableView(details.TableView)
	case paradox.FamilyDetails:
		dumpFamily(details.Family)
	case paradox.IndexDetails:
		dumpIndex(details.Index)
	case paradox.SecondaryIndexDataDetails:
		fmt.Printf("base table field numbers: %v\n", details.Data.FieldNumbers)
		dumpTable(details.Data.Table, *sample)
	case paradox.BinaryDetails:
		dumpBinary(details.Binary)
	}
}

func dumpTable(t *paradox.Table, sample int) {
	defer t.Close()
	names := t.FieldDisplayNames()
	fmt.Println(names)
	rows := t.FormattedRecords(sample, paradox.DefaultEncoding())
	for _, row := range rows {
		fmt.Println(row)
	}
	fmt.Printf("(%d of %d records shown)\n", len(rows), len(t.Records))
}

func dumpTableView(tv *paradox.TableView) {
	fmt.Printf("version %d, table %q\n", tv.Version, tv.ResolvedTableReference)
	for _, label := range tv.AdditionalLabels {
		fmt.Println("label:", label)
	}
}

func dumpFamily(f *paradox.Family) {
	for _, ref := range f.References {
		fmt.Printf("%-16s line %d  %s\n", ref.Kind, ref.LineNumber, ref.Name)
	}
}

func dumpIndex(idx *paradox.Index) {
	fmt.Printf("%s index, %d blocks walked (header reports %d in use)\n",
		idx.Kind, idx.TotalBlocksReported, idx.Header.BlocksInUse)
	for _, b := range idx.Blocks {
		fmt.Printf("  block %d: %d records\n", b.ID, b.RecordCount)
	}
}

func dumpBinary(b *paradox.GenericBinary) {
	fmt.Println(b.HexDump(0, 64))
	for _, seg := range b.ASCIISegments(4) {
		fmt.Println("ascii:", seg)
	}
}
