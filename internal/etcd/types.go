package etcd

import (
	"context"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Client is the part of *clientv3.Client the live service uses.
type Client interface {
	KV
	Watcher
	Lease
}

// KV covers plain key reads and writes.
type KV interface {
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
	Put(ctx context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error)
	Delete(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.DeleteResponse, error)
}

// Watcher covers prefix reads and watches used by change-feed channels.
type Watcher interface {
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
	Watch(ctx context.Context, key string, opts ...clientv3.OpOption) clientv3.WatchChan
}

// Lease grants the TTL leases published events are attached to.
type Lease interface {
	Grant(ctx context.Context, ttl int64) (*clientv3.LeaseGrantResponse, error)
}
