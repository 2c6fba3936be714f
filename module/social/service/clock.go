package service

import "time"

// 测试里可替换
var timeNow = time.Now
