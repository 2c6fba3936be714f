package global

import (
	"context"

	"PPSocial/data/database/mgo/mongoutil"
	mid "PPSocial/middleware"
	mgoSrv "PPSocial/service/mgo"
	redis "PPSocial/service/storage/redis"
	ids "PPSocial/tools/ids"
	"PPSocial/tools"
	"PPSocial/tools/errs"
	"PPSocial/tools/security"
)

var appCfg *AppConfig

func ConfigAll() {
	appCfg = LoadAppConfig()
	ConfigIds()
	ConfigRedis()
	ConfigMgo()
	ConfigMiddleware()
}

// Config 当前进程配置；ConfigAll 之前调用会惰性加载
func Config() *AppConfig {
	if appCfg == nil {
		appCfg = LoadAppConfig()
	}
	return appCfg
}

func ConfigIds() {
	ids.SetNodeID(int64(tools.GetEnvInt("NODE_ID", 100)))
}

func ConfigRedis() {
	cfg := Config()
	config := redis.Config{
		Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB,
	}
	err := redis.InitRedis(config)
	if err != nil {
		return
	}
}

// ConfigMgo 同步注册连接循环（StartAsync 内部起 goroutine），
// 调用方随后用 mgoSrv.WaitReady 等首连
func ConfigMgo() {
	cfg := Config()
	mcfg := &mongoutil.Config{
		Uri:         cfg.MongoURI,
		Database:    cfg.MongoDatabase,
		Username:    cfg.MongoUsername,
		Password:    cfg.MongoPassword,
		MaxPoolSize: 20,
		MaxRetry:    3, // StartAsync 里自己做指数退避
	}
	mgoSrv.StartAsync(context.Background(), mcfg)
}

func ConfigMiddleware() {
	mid.Config()
}

// RequestTokenOptions 好友申请令牌参数
func RequestTokenOptions() security.RequestTokenOptions {
	cfg := Config()
	return security.RequestTokenOptions{
		Secret: []byte(cfg.FriendTokenSecret),
		TTL:    cfg.FriendTokenTTL,
	}
}

// SessionTokenOptions 会话令牌参数
func SessionTokenOptions() security.SessionTokenOptions {
	return security.DefaultSessionTokenOptions([]byte(Config().SessionSecret))
}

// NewMessageCipher 消息落库编解码器
func NewMessageCipher() (*security.MessageCipher, error) {
	cipher, err := security.NewMessageCipher([]byte(Config().MessageKey))
	if err != nil {
		return nil, errs.WrapMsg(err, "init message cipher")
	}
	return cipher, nil
}
