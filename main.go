package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	global "PPSocial/global"
	mid "PPSocial/middleware"
	midsec "PPSocial/middleware/security"
	"PPSocial/module/social/handler"
	"PPSocial/module/social/service"
	"PPSocial/module/social/store"
	mgoSrv "PPSocial/service/mgo"
	"PPSocial/service/storage"
)

func main() {

	global.ConfigAll()
	if !global.Config().Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	midsec.SetValidator(midsec.JWTSessionValidator{Opts: global.SessionTokenOptions()})

	// Mongo 首连是硬依赖，连不上直接退出
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := mgoSrv.WaitReady(ctx, mgoSrv.Manager()); err != nil {
		log.Fatalf("mongo not ready: %v (last err: %v)", err, mgoSrv.Err())
	}

	stores := store.NewMongoStores(mgoSrv.GetDB())
	cipher, err := global.NewMessageCipher()
	if err != nil {
		log.Fatalf("message cipher init failed: %v", err)
	}
	locker := storage.NewRedisPairLocker()

	friendSvc := service.NewFriendService(stores.Users, stores.Requests, global.RequestTokenOptions(), locker)
	convSvc := service.NewConversationService(stores.Users, stores.Conversations, cipher, locker)
	groupSvc := service.NewGroupService(stores.Users, stores.Groups, cipher)

	r := gin.New()
	r.Use(gin.Recovery())
	mid.Manager().Add(mid.AccessLog())
	r.Use(mid.Manager().Use())

	handler.RegisterRoutes(r,
		handler.NewFriendHandler(friendSvc),
		handler.NewMessageHandler(convSvc),
		handler.NewGroupHandler(groupSvc),
	)

	addr := fmt.Sprintf(":%d", global.Config().Port)
	log.Printf("[HTTP] Listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
