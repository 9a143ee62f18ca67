// Package domain contains core concepts of the relay.
// This file defines the text formats of presence notifications.
package domain

import "fmt"

func JoinedText(username string) string {
	return fmt.Sprintf("%s has joined the room", username)
}

func LeftText(username string) string {
	return fmt.Sprintf("%s has left the room", username)
}
