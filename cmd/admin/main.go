// Command admin talks to the control plane of a running blog server.
//
//	admin [-addr host:port] clear-cache
//	admin [-addr host:port] maintenance on|off
//	admin [-addr host:port] create-group <slug> <title> <description>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"blog/internal/admin"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-addr host:port] clear-cache | maintenance on|off | create-group <slug> <title> <description>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	addr := flag.String("addr", "127.0.0.1:8001", "address of the admin control plane")
	timeout := flag.Duration("timeout", 5*time.Second, "deadline for the call")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := execute(ctx, admin.NewClient(conn), flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, client *admin.Client, args []string) error {
	switch args[0] {
	case "clear-cache":
		if err := client.ClearPageCache(ctx); err != nil {
			return err
		}
		fmt.Println("page cache cleared")

	case "maintenance":
		if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
			return fmt.Errorf("maintenance needs \"on\" or \"off\"")
		}
		if err := client.SetMaintenance(ctx, args[1] == "on"); err != nil {
			return err
		}
		fmt.Printf("maintenance %s\n", args[1])

	case "create-group":
		if len(args) < 4 {
			return fmt.Errorf("create-group needs <slug> <title> <description>")
		}
		id, slug, err := client.CreateGroup(ctx, args[2], args[1], strings.Join(args[3:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("group %d created at /group/%s/\n", id, slug)

	default:
		return fmt.Errorf("unknown command {%s}", args[0])
	}
	return nil
}
