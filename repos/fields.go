package repos

import "go.uber.org/zap"

func zapOwner(id string) zap.Field {
	return zap.String("owner_id", id)
}

func zapCount(n int) zap.Field {
	return zap.Int("count", n)
}
