package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"live-quiz-service/internal/app"
)

// RoomStore is a Redis-aware implementation of app.RoomRepository.
// Notes:
//   - Room state stays in a local map; it is owned by this process.
//   - Redis only carries a liveness marker per room so other instances and
//     operators can see which rooms are open here. The marker is refreshed
//     whenever the room is looked up through GetOrCreate.
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	rooms  map[string]*app.Room
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		client: client,
		ttl:    ttl,
		rooms:  make(map[string]*app.Room),
	}
}

func (s *RoomStore) GetOrCreate(roomID string) *app.Room {
	s.mu.Lock()
	room, ok := s.rooms[roomID]
	if !ok {
		room = app.NewRoom(roomID)
		s.rooms[roomID] = room
	}
	s.mu.Unlock()

	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(roomID), "1", s.ttl).Err()
	return room
}

func (s *RoomStore) Get(roomID string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	return room, ok
}

func (s *RoomStore) All() []*app.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*app.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Release drops the liveness markers of every room held by this process.
func (s *RoomStore) Release(ctx context.Context) error {
	s.mu.RLock()
	keys := make([]string, 0, len(s.rooms))
	for roomID := range s.rooms {
		keys = append(keys, s.key(roomID))
	}
	s.mu.RUnlock()
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *RoomStore) key(roomID string) string {
	return "quiz:room:" + roomID
}
