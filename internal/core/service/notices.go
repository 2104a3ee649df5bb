package service

import (
	"sync"

	"github.com/hotelops/hms-console/internal/core/domain"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is one toast.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Notices queues toasts until the next render drains them.
type Notices struct {
	mu    sync.Mutex
	queue []Notice
}

func (n *Notices) Push(notice Notice) {
	n.mu.Lock()
	n.queue = append(n.queue, notice)
	n.mu.Unlock()
}

func (n *Notices) Success(title, message string) {
	n.Push(Notice{Level: LevelSuccess, Title: title, Message: message})
}

// Failure turns err into an error toast. fallback is shown when err carries no
// operator-facing text.
func (n *Notices) Failure(err error, fallback string) {
	n.Push(Notice{Level: LevelError, Title: "Error", Message: domain.UserMessage(err, fallback)})
}

// Drain returns the queued notices and empties the queue.
func (n *Notices) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.queue
	n.queue = nil
	return out
}
