package entity

import "errors"

// ErrUnknownCommand команда не поддерживается
var ErrUnknownCommand = errors.New("unknown command")

// Command управляющая команда от панели оператора
type Command string

const (
	CommandStart      Command = "start_detection"
	CommandStop       Command = "stop_detection"
	CommandRestart    Command = "restart_system"
	CommandGetStatus  Command = "get_status"
	CommandResetStats Command = "reset_stats"
)

// Valid сообщает, что команда известна
func (c Command) Valid() bool {
	switch c {
	case CommandStart, CommandStop, CommandRestart, CommandGetStatus, CommandResetStats:
		return true
	}
	return false
}
