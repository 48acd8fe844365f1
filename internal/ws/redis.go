package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/playarena/backend/internal/rooms"
)

const roomEventsChannel = "room_events"

// roomEvent is the wire form published on the room_events channel. Every
// server instance subscribes, so an update made anywhere reaches the
// clients connected everywhere.
type roomEvent struct {
	Type     string      `json:"type"`
	RoomID   string      `json:"room_id"`
	GameType string      `json:"game_type"`
	Room     *rooms.Room `json:"room"`
}

// PublishRoomUpdate pushes a room-updated event. Best effort: a publish
// failure only costs a re-render, the next poll catches clients up.
func PublishRoomUpdate(ctx context.Context, rdb *redis.Client, room *rooms.Room) {
	event := roomEvent{
		Type:     "room_updated",
		RoomID:   room.ID,
		GameType: string(room.GameType),
		Room:     room,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WS] marshal room event failed: %v", err)
		return
	}
	if err := rdb.Publish(ctx, roomEventsChannel, data).Err(); err != nil {
		log.Printf("[WS] publish room event for %s failed: %v", room.ID, err)
	}
}

// StartRoomEventSubscriber subscribes to room_events and rebroadcasts each
// event to the hub's local watchers of that room
func StartRoomEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	pubsub := rdb.Subscribe(ctx, roomEventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] room_events subscriber started")
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event roomEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("[WS] invalid room event payload: %v", err)
					continue
				}
				if event.RoomID == "" {
					continue
				}
				hub.BroadcastToRoom(event.RoomID, event)
			case <-ctx.Done():
				return
			}
		}
	}()
}
