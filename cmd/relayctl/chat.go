package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"room-relay/client"
	"room-relay/domain"
	"room-relay/domain/event"
	"room-relay/transport"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var flagChatUsername string

var chatCmd = &cobra.Command{
	Use:   "chat <roomKey>",
	Short: "Join a room and chat from the terminal",
	Long: `Join a room and send every line typed on stdin as a message.

Commands:
  /who    list online users
  /leave  leave the room and quit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := newClient()
		if err != nil {
			return err
		}
		if !cfg.Colours {
			color.Disable()
		}
		session, err := c.Dial(cmd.Context())
		if err != nil {
			return err
		}
		defer session.Close()
		go func() {
			<-cmd.Context().Done()
			_ = session.Close()
		}()

		return chat(session, domain.RoomKey(args[0]), flagChatUsername, os.Stdin, cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().StringVarP(&flagChatUsername, "username", "u", "", "name shown to the room")
	_ = chatCmd.MarkFlagRequired("username")
}

// chat joins the room, prints every incoming frame and sends stdin lines
// until stdin closes or the connection drops.
func chat(session *client.Session, room domain.RoomKey, username string, in io.Reader, out io.Writer) error {
	if err := session.Send(string(domain.KindGetRoomName), "name", map[string]any{"roomKey": room}); err != nil {
		return err
	}
	if err := session.Send(string(domain.KindJoinRoom), "", map[string]any{"roomKey": room, "username": username}); err != nil {
		return err
	}

	readErr := make(chan error, 1)
	go func() {
		for {
			env, err := session.Next()
			if err != nil {
				readErr <- err
				return
			}
			if line := formatEnvelope(env); line != "" {
				fmt.Fprintln(out, line)
			}
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	requests := 0
	for {
		select {
		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			var err error
			switch line {
			case "":
				continue
			case "/leave":
				return session.Send(string(domain.KindLeaveRoom), "", nil)
			case "/who":
				requests++
				err = session.Send(string(domain.KindGetOnlineUsers), strconv.Itoa(requests), map[string]any{"roomKey": room})
			default:
				err = session.Send(string(domain.KindPostMessage), "", map[string]any{"room": room, "message": line, "username": username})
			}
			if err != nil {
				return err
			}
		}
	}
}

// formatEnvelope renders one frame for the terminal. Unknown frames are skipped.
func formatEnvelope(env transport.Envelope) string {
	switch event.Kind(env.Type) {
	case event.KindConnected:
		var p event.Connected
		_ = json.Unmarshal(env.Payload, &p)
		return color.Gray.Sprintf("connected as %s", p.ID)
	case event.KindUserJoined, event.KindUserLeft:
		var p struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(env.Payload, &p)
		return color.Yellow.Sprint(p.Message)
	case event.KindOnlineUsers:
		var users []string
		_ = json.Unmarshal(env.Payload, &users)
		return color.Gray.Sprintf("online: %s", strings.Join(users, ", "))
	case event.KindMessage:
		var p event.MessageSent
		_ = json.Unmarshal(env.Payload, &p)
		return color.Cyan.Sprint(p.Username) + ": " + p.Message
	case event.KindRoomName:
		var p struct {
			Name *string `json:"name"`
		}
		_ = json.Unmarshal(env.Payload, &p)
		if p.Name == nil {
			return color.Red.Sprint("room not found")
		}
		return color.Green.Sprintf("room: %s", *p.Name)
	case event.KindJoinFailed:
		return color.Red.Sprint("join failed: room not found")
	case event.KindError:
		var p struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(env.Payload, &p)
		return color.Red.Sprintf("error: %s", p.Error)
	case event.KindOffer, event.KindAnswer, event.KindICECandidate:
		return color.Gray.Sprintf("%s from %s", env.Type, env.From)
	default:
		return ""
	}
}
