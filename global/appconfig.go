package global

import (
	"time"

	"PPSocial/tools"
)

type AppConfig struct {
	Port  int  // http 启动端口
	Debug bool // true 保留 gin debug 输出

	MongoURI      string
	MongoDatabase string
	MongoUsername string
	MongoPassword string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	FriendTokenSecret string        // 好友申请令牌 HMAC 密钥
	FriendTokenTTL    time.Duration // 申请令牌有效期
	SessionSecret     string        // 会话令牌 HMAC 密钥
	MessageKey        string        // 消息落库 AES 密钥（16/24/32 字节）
}

// LoadAppConfig 全部来自环境变量，带本地开发默认值
func LoadAppConfig() *AppConfig {
	return &AppConfig{
		Port:  tools.GetEnvInt("HTTP_PORT", 8080),
		Debug: tools.GetEnvBool("DEBUG", false),

		MongoURI:      tools.GetEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: tools.GetEnv("MONGO_DATABASE", "socialApp"),
		MongoUsername: tools.GetEnv("MONGO_USERNAME", ""),
		MongoPassword: tools.GetEnv("MONGO_PASSWORD", ""),

		RedisAddr:     tools.GetEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: tools.GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       tools.GetEnvInt("REDIS_DB", 0),

		FriendTokenSecret: tools.GetEnv("FRIEND_TOKEN_SECRET", "mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3"),
		FriendTokenTTL:    time.Duration(tools.GetEnvInt("FRIEND_TOKEN_TTL_HOURS", 168)) * time.Hour,
		SessionSecret:     tools.GetEnv("SESSION_SECRET", "mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3"),
		MessageKey:        tools.GetEnv("MESSAGE_KEY", "0123456789abcdef0123456789abcdef"),
	}
}
