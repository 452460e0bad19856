package middleware

import (
	"testing"
	"time"
)

// TestTokenBucketFractionalAccrual 不足一个令牌周期的时间在多次消费间累积
func TestTokenBucketFractionalAccrual(t *testing.T) {
	// 每500毫秒产生一个令牌
	tb := &TokenBucket{
		tokens:   0,
		capacity: 4,
		rate:     2,
		lastTime: time.Now().Add(-300 * time.Millisecond),
	}
	anchor := tb.lastTime

	if tb.consume() {
		t.Error("经过时间不足一个令牌周期时不应放行")
	}
	if !tb.lastTime.Equal(anchor) {
		t.Error("未补充令牌时不应推进计时起点, 否则零碎时间被丢弃")
	}

	// 再回拨300毫秒, 累计约600毫秒, 应补充出1个令牌
	tb.lastTime = tb.lastTime.Add(-300 * time.Millisecond)
	anchor = tb.lastTime
	if !tb.consume() {
		t.Fatal("累计超过一个令牌周期后应放行")
	}
	if tb.tokens != 0 {
		t.Errorf("tokens = %d, want 0 (补充1个随即消费)", tb.tokens)
	}
	if !tb.lastTime.Equal(anchor.Add(500 * time.Millisecond)) {
		t.Errorf("计时起点应精确推进一个令牌周期(500ms), got %v", tb.lastTime.Sub(anchor))
	}
}

// TestTokenBucketCapacityClamp 长时间空闲后令牌数不超过桶容量
func TestTokenBucketCapacityClamp(t *testing.T) {
	tb := &TokenBucket{
		tokens:   0,
		capacity: 3,
		rate:     10,
		lastTime: time.Now().Add(-5 * time.Second),
	}

	for i := 0; i < 3; i++ {
		if !tb.consume() {
			t.Fatalf("第%d次消费应放行(桶已满)", i+1)
		}
	}
	if tb.consume() {
		t.Error("令牌耗尽后应被限流")
	}
}

// TestTokenBucketLimiterPerKey 不同key互不影响, Reset后重新放行
func TestTokenBucketLimiterPerKey(t *testing.T) {
	limiter := &TokenBucketLimiter{
		buckets: make(map[string]*TokenBucket),
		rate:    1,
		burst:   1,
		cleanup: time.Minute,
	}

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("首次请求应放行")
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("突发额度耗尽后应被限流")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Error("其他key不应受影响")
	}

	limiter.Reset("10.0.0.1")
	if !limiter.Allow("10.0.0.1") {
		t.Error("Reset后应重新放行")
	}
}
