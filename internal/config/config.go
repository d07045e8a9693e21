package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database `envPrefix:"DATABASE_"`
	Auth        Auth     `envPrefix:"AUTH_"`
	Order       Order    `envPrefix:"ORDER_"`
	Cart        Cart     `envPrefix:"CART_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // mysql | sqlite
	URL    string `env:"URL" envDefault:"medifind.db"`
}

type Auth struct {
	Secret   string        `env:"SECRET" envDefault:"medifind-secret"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

type Order struct {
	// warn: log the mismatch and charge ledger prices; reject: refuse the order
	PricePolicy string  `env:"PRICE_POLICY" envDefault:"warn"`
	RateLimit   float64 `env:"RATE_LIMIT" envDefault:"5"` // requests per second, 0 disables
}

type Cart struct {
	TaxRate string `env:"TAX_RATE" envDefault:"0"`
}
