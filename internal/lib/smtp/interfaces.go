// Package smtp содержит транспорт и интерфейсы для отправки почты.
package smtp

import "io"

// Client покрывает подмножество *smtp.Client, достаточное для
// отправки одного письма. За интерфейсом удобно подставлять мок.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface выдает готовые к отправке соединения.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
