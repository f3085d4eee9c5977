package sqldb

type Conf struct {
	Type string `json:"type" yaml:"type"` // sqlite, pgsql, mysql
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
	User string `json:"user" yaml:"user"`
	PW   string `json:"pw" yaml:"pw"`
	DB   string `json:"db" yaml:"db"`   // database name. file path for sqlite
	TZ   string `json:"tz" yaml:"tz"`   // Connection Timezone
	DSN  string `json:"dsn" yaml:"dsn"` // To Overwrite Default DSN
}

func (c *Conf) PlaceholderPrefix() byte {
	return PlaceholderPrefixForDBType[c.Type]
}
