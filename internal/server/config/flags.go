package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/microblog/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-m string   mongodb connection string
//	-n string   database name
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-i string   image upload directory
//	-u string   upload backend ("disk" or "s3")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-n", "-s", "-t", "-i", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "mongodb connection string")
	fs.StringVar(&config.MongoDB, "n", config.MongoDB, "database name")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "secret key")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity (in minutes)")

	fs.StringVar(&config.ImageDir, "i", config.ImageDir, "image upload directory")
	fs.StringVar(&config.UploadBackend, "u", config.UploadBackend, "upload backend (disk or s3)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
}
