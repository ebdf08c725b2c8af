package websocket

import "sync"

// rooms groups live connections by game id.
type rooms struct {
	mu    sync.RWMutex
	games map[string]map[*client]struct{}
}

func newRooms() *rooms {
	return &rooms{games: make(map[string]map[*client]struct{})}
}

func (that *rooms) join(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.games[c.gameID]
	if !ok {
		room = make(map[*client]struct{})
		that.games[c.gameID] = room
	}
	room[c] = struct{}{}
}

func (that *rooms) leave(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.games[c.gameID]
	if !ok {
		return
	}

	delete(room, c)
	if len(room) == 0 {
		delete(that.games, c.gameID)
	}
}

func (that *rooms) members(gameID string) []*client {
	that.mu.RLock()
	defer that.mu.RUnlock()

	members := make([]*client, 0, len(that.games[gameID]))
	for c := range that.games[gameID] {
		members = append(members, c)
	}

	return members
}

func (that *rooms) count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.games)
}
