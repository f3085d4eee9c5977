package throttle

import (
	"sync"
	"time"
)

type BucketConf struct {
	Burst     int           `json:"burst" yaml:"burst"`         // maximum number of tokens in the bucket
	Increment int           `json:"increment" yaml:"increment"` // how many tokens to add each period
	Period    time.Duration `json:"period" yaml:"period"`       // how often to add Increment
}

type BucketGroup[K comparable] struct {
	conf    BucketConf
	buckets sync.Map // K -> *Bucket[K]
}

func (g *BucketGroup[K]) GetBucket(id K) (*Bucket[K], bool) {
	bAny, ok := g.buckets.Load(id)
	if !ok {
		return nil, false
	}
	return bAny.(*Bucket[K]), true
}

// getOrCreate returns the bucket for id. A fresh bucket starts full.
func (g *BucketGroup[K]) getOrCreate(id K, now time.Time) *Bucket[K] {
	if b, ok := g.GetBucket(id); ok {
		return b
	}
	bAny, _ := g.buckets.LoadOrStore(id, &Bucket[K]{
		tokens:      g.conf.Burst,
		lastCheck:   now,
		parentGroup: g,
	})
	return bAny.(*Bucket[K])
}

// cleanup drops buckets untouched for longer than olderThan and reports how many
func (g *BucketGroup[K]) cleanup(now time.Time, olderThan time.Duration) int {
	n := 0
	g.buckets.Range(func(id, value any) bool {
		if now.Sub(value.(*Bucket[K]).idleSince()) > olderThan {
			g.buckets.Delete(id)
			n++
		}
		return true
	})
	return n
}

func (g *BucketGroup[K]) size() int {
	n := 0
	g.buckets.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
