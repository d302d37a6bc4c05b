// Command kernelctl provisions the MongoDB collections and indexes the
// kernel needs before it can serve traffic.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/scieloorg/kernel-sub000/internal/store/mongostore"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: kernelctl <create-indexes|create-collections> <dsn> <dbname>")
		return 1
	}

	cmd, dsn, dbName := args[0], args[1], args[2]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := mongostore.NewClient(dsn, dbName)
	defer func() { _ = client.Disconnect(context.Background()) }()

	db, err := client.Database(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernelctl: %v\n", err)
		return 1
	}

	switch cmd {
	case "create-collections":
		err = mongostore.EnsureCollections(ctx, db)
	case "create-indexes":
		err = mongostore.EnsureIndexes(ctx, db)
	default:
		fmt.Fprintf(os.Stderr, "kernelctl: unknown command %q\n", cmd)
		return 1
	}

	if err != nil {
		if ctx.Err() != nil {
			return 130
		}
		fmt.Fprintf(os.Stderr, "kernelctl: %v\n", err)
		return 1
	}
	return 0
}
