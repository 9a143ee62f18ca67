package main

import (
	"fmt"
	"io"
	"room-relay/client"
	"room-relay/domain"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Create, list and delete rooms",
}

var roomsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a room and print its key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}
		room, err := c.CreateRoom(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", room.RoomKey, room.RoomName)
		return nil
	},
}

var roomsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List every room",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}
		rooms, err := c.ListRooms(cmd.Context())
		if err != nil {
			return err
		}
		renderRooms(cmd.OutOrStdout(), rooms)
		return nil
	},
}

var roomsDeleteCmd = &cobra.Command{
	Use:     "delete <roomKey>",
	Aliases: []string{"rm"},
	Short:   "Delete a room, everyone inside is told they left",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}
		return c.DeleteRoom(cmd.Context(), domain.RoomKey(args[0]))
	},
}

func init() {
	roomsCmd.AddCommand(roomsCreateCmd, roomsListCmd, roomsDeleteCmd)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
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
	return table
}

func renderRooms(w io.Writer, rooms []client.Room) {
	table := newTable(w, "Key", "Name", "Created")
	for _, room := range rooms {
		table.Append([]string{string(room.RoomKey), room.RoomName, room.CreatedAt.Local().Format(time.DateTime)})
	}
	table.Render()
}
