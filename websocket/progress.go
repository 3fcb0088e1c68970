package websocket

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"taskhero/models"
)

// ProgressClient represents a client connected to the progress feed.
type ProgressClient struct {
	Conn    *websocket.Conn
	UserID  string
	writeMu sync.Mutex
}

// SafeWriteJSON serializes concurrent writes to the connection.
func (pc *ProgressClient) SafeWriteJSON(v interface{}) error {
	pc.writeMu.Lock()
	defer pc.writeMu.Unlock()
	return pc.Conn.WriteJSON(v)
}

var (
	progressClients = make(map[*ProgressClient]bool)
	progressMutex   sync.RWMutex
)

// RegisterProgressClient adds a client to the progress feed.
func RegisterProgressClient(client *ProgressClient) {
	progressMutex.Lock()
	defer progressMutex.Unlock()
	progressClients[client] = true
	log.Printf("Progress client registered. Total clients: %d", len(progressClients))
}

// UnregisterProgressClient removes a client and closes its connection.
func UnregisterProgressClient(client *ProgressClient) {
	progressMutex.Lock()
	defer progressMutex.Unlock()
	delete(progressClients, client)
	client.Conn.Close()
	log.Printf("Progress client unregistered. Total clients: %d", len(progressClients))
}

// BroadcastProgressEvent sends a progression event to the event's user.
// Other users' clients never see it.
func BroadcastProgressEvent(event models.ProgressEvent) {
	progressMutex.RLock()
	defer progressMutex.RUnlock()

	for client := range progressClients {
		if client.UserID != event.UserID {
			continue
		}
		if err := client.SafeWriteJSON(event); err != nil {
			log.Printf("Error broadcasting progress event to client: %v", err)
			go UnregisterProgressClient(client)
		}
	}
}
