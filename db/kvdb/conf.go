package kvdb

import "github.com/zeptools/fichas/db/sqldb"

type Conf struct {
	Type      string `json:"type" yaml:"type"` // memory, redis, sqlite, pgsql, mysql
	Host      string `json:"host" yaml:"host"`
	Port      int    `json:"port" yaml:"port"`
	PW        string `json:"pw" yaml:"pw"`
	DB        int    `json:"db" yaml:"db"`                 // optional db number e.g. redis
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"` // e.g. "fichas:" to share a redis db

	// SQL backs the sqlite, pgsql and mysql types. Its Type is filled from Type when empty.
	SQL sqldb.Conf `json:"sql" yaml:"sql"`

	// EncryptionKey (base64, 32 bytes) turns on at-rest sealing of every slot value
	EncryptionKey string `json:"encryption_key" yaml:"encryption_key"`
}
