package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
)

// Ad-hoc inspector: connects as a throwaway user, asks the server for its
// user and group snapshots, and renders them as a table. Read-only from the
// relay's point of view apart from the transient registration.
func main() {
	addr := flag.String("addr", "localhost:12345", "server address")
	timeout := flag.Duration("timeout", 3*time.Second, "I/O timeout")
	flag.Parse()

	conn, err := net.DialTimeout("tcp", *addr, *timeout)
	if err != nil {
		log.Fatal("Error while connecting: ", err)
	}
	defer conn.Close()

	username := "inspector-" + uuid.NewString()[:8]
	reader := bufio.NewScanner(conn)

	readLine := func() string {
		_ = conn.SetReadDeadline(time.Now().Add(*timeout))
		if !reader.Scan() {
			log.Fatal("Connection closed during inspection")
		}
		return reader.Text()
	}
	sendLine := func(line string) {
		_ = conn.SetWriteDeadline(time.Now().Add(*timeout))
		if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
			log.Fatal("Error while sending: ", err)
		}
	}

	// Handshake: prompt -> username -> welcome.
	readLine()
	sendLine(username)
	readLine()

	sendLine("/listUsers")
	sendLine("/listGroups")

	var users, groups string
	for users == "" || groups == "" {
		line := readLine()
		switch {
		case strings.HasPrefix(line, "Connected users: "), line == "No users are currently connected.":
			users = strings.TrimPrefix(line, "Connected users: ")
		case strings.HasPrefix(line, "Available groups: "), line == "No groups have been created.":
			groups = strings.TrimPrefix(line, "Available groups: ")
		}
	}
	sendLine("/quit")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Kind", "Names"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	table.Append([]string{"Users", users})
	table.Append([]string{"Groups", groups})
	table.Render()
}
