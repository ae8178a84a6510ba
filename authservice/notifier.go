package authservice

import "github.com/rs/zerolog/log"

// Notifier shows user facing outcomes of account operations, e.g. a toast or a CLI line
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// LogNotifier reports outcomes through the global logger
type LogNotifier struct{}

func (LogNotifier) Success(title, message string) {
	log.Info().Str("title", title).Msg(message)
}

func (LogNotifier) Error(title, message string) {
	log.Warn().Str("title", title).Msg(message)
}

type noopNotifier struct{}

func (noopNotifier) Success(string, string) {}
func (noopNotifier) Error(string, string)   {}
