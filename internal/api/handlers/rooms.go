package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playarena/backend/internal/rooms"
)

// Stores maps each game type to its room store
type Stores map[rooms.GameType]*rooms.Store

func storeFor(c *gin.Context, stores Stores) (*rooms.Store, bool) {
	game := rooms.GameType(c.Param("game"))
	store, found := stores[game]
	if !found {
		fail(c, http.StatusNotFound, "unknown game type")
		return nil, false
	}
	return store, true
}

// roomStatus maps a store error to an HTTP status. Rule rejections are
// client errors, everything unexpected is a 500.
func roomStatus(err error) int {
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, rooms.ErrInsufficientBalance),
		errors.Is(err, rooms.ErrRejected),
		errors.Is(err, rooms.ErrRoomBusy),
		errors.Is(err, rooms.ErrRoomFull),
		errors.Is(err, rooms.ErrRoomEnded),
		errors.Is(err, rooms.ErrSelfJoin),
		errors.Is(err, rooms.ErrNotSeated):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ListRooms returns the live rooms for a game type
func ListRooms(stores Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, found := storeFor(c, stores)
		if !found {
			return
		}
		if err := store.Refresh(c.Request.Context()); err != nil {
			log.Printf("[API] room list refresh failed: %v", err)
		}
		ok(c, gin.H{"rooms": store.GetRooms()})
	}
}

// CreateRoom opens a room with the caller as host
func CreateRoom(stores Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, found := storeFor(c, stores)
		if !found {
			return
		}
		var payload rooms.CreatePayload
		if err := c.BindJSON(&payload); err != nil {
			fail(c, http.StatusBadRequest, "invalid room configuration")
			return
		}

		room, err := store.CreateRoom(c.Request.Context(), c.GetString("account"), payload)
		if err != nil {
			fail(c, roomStatus(err), err.Error())
			return
		}
		ok(c, gin.H{"room_id": room.ID, "short_code": room.ShortCode, "room": room})
	}
}

// GetRoom returns one room by id or short code
func GetRoom(stores Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, found := storeFor(c, stores)
		if !found {
			return
		}
		if err := store.Refresh(c.Request.Context()); err != nil {
			log.Printf("[API] room refresh failed: %v", err)
		}
		room := store.GetRoom(c.Param("id"))
		if room == nil {
			fail(c, http.StatusNotFound, "room not found")
			return
		}
		ok(c, gin.H{"room": room})
	}
}

// JoinRoom seats the caller in a waiting room
func JoinRoom(stores Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, found := storeFor(c, stores)
		if !found {
			return
		}
		var payload rooms.CreatePayload
		if err := c.BindJSON(&payload); err != nil {
			fail(c, http.StatusBadRequest, "invalid join payload")
			return
		}

		room, err := store.JoinRoom(c.Request.Context(), c.Param("id"), c.GetString("account"), payload)
		if err != nil {
			fail(c, roomStatus(err), err.Error())
			return
		}
		ok(c, gin.H{"room": room})
	}
}

// DispatchAction forwards one game action into the room's round logic
func DispatchAction(stores Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, found := storeFor(c, stores)
		if !found {
			return
		}
		var action json.RawMessage
		if err := c.BindJSON(&action); err != nil {
			fail(c, http.StatusBadRequest, "invalid action")
			return
		}

		room, err := store.DispatchRoomAction(c.Request.Context(), c.Param("id"), c.GetString("account"), action)
		if err != nil {
			fail(c, roomStatus(err), err.Error())
			return
		}
		ok(c, gin.H{"room": room})
	}
}
