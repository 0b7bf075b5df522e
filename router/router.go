package router

import (
	"color-engine/controller"
	"color-engine/middleware"
	"color-engine/utils"
	"color-engine/ws"

	"github.com/gin-gonic/gin"
)

func InitRouter(r *gin.Engine, rooms *controller.RoomController, hub *ws.Hub, tokens *utils.Tokens) {
	auth := middleware.AuthMiddleware(tokens)

	api := r.Group("/room")
	{
		api.POST("/create", rooms.CreateRoom)
		api.GET("/list", rooms.GetRoomList)
		api.GET("/online", rooms.GetOnlinePlayer)
		api.GET("/:roomID", rooms.GetRoomInfo)
		api.POST("/:roomID/join", rooms.JoinRoom)
		api.POST("/:roomID/start", auth, rooms.StartGame)
		api.DELETE("/:roomID", auth, rooms.DeleteRoom)
		api.GET("/:roomID/log", rooms.GetGameLog)
	}

	// websocket
	r.GET("/ws", hub.HandleWebSocket)
}
