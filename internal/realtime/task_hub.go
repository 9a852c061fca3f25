package realtime

import (
	"sync"

	"sira/internal/models"
)

// TaskHub fans chat messages out to every open connection on a task.
type TaskHub struct {
	mu    sync.RWMutex
	tasks map[string]map[*Conn]struct{}
}

func NewTaskHub() *TaskHub {
	return &TaskHub{
		tasks: make(map[string]map[*Conn]struct{}),
	}
}

func (h *TaskHub) Register(taskID string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tasks[taskID] == nil {
		h.tasks[taskID] = make(map[*Conn]struct{})
	}
	h.tasks[taskID][conn] = struct{}{}
}

func (h *TaskHub) Unregister(taskID string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.tasks[taskID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.tasks, taskID)
		}
	}
	_ = conn.Close()
}

func (h *TaskHub) Broadcast(msg *models.ChatMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.tasks[msg.TaskID] {
		_ = conn.WriteJSON(msg)
	}
}
