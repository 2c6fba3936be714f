package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	storageredis "PPSocial/service/storage/redis"
	"PPSocial/tools/errs"
	"PPSocial/tools/ids"
)

// 配对互斥锁：好友请求与单聊会话的 lookup-then-create 竞态都靠它串行化。
// key 形如 social:lock:freq:<a>|<b>，value 是本次持有者令牌，租约到期自动释放。

const (
	lockKeyPrefix = "social:lock:"
	lockLease     = 5 * time.Second
	lockRetry     = 20 * time.Millisecond
)

// releaseScript 只删除自己持有的锁，避免租约过期后误删他人
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisPairLocker struct {
	client *redis.Client
}

func NewRedisPairLocker() *RedisPairLocker {
	return &RedisPairLocker{client: storageredis.GetRedis()}
}

// Lock 阻塞到拿到 key 的租约或 ctx 结束，返回释放函数
func (l *RedisPairLocker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := lockKeyPrefix + key
	owner := ids.GenerateString()

	for {
		ok, err := l.client.SetNX(ctx, fullKey, owner, lockLease).Result()
		if err != nil {
			return nil, errs.WrapMsg(err, "acquire pair lock", "key", fullKey)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errs.WrapMsg(ctx.Err(), "acquire pair lock", "key", fullKey)
		case <-time.After(lockRetry):
		}
	}

	release := func() {
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, l.client, []string{fullKey}, owner).Err()
	}
	return release, nil
}
