package domain

import "time"

// Case is a service recipient assigned to a responsible worker.
type Case struct {
	ID        int64
	Name      string
	WorkerID  int64
	Status    string
	City      string
	District  string
	CreatedAt time.Time
}
