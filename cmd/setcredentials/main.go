// Command setcredentials writes an encrypted login/password pair into the
// bot's database, so secrets never have to live in flags or unit files.
// The password is read from stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/metmat-canvas-bot/internal/credentials"
	"github.com/metmat-canvas-bot/internal/keys"
)

func main() {
	dbPath := flag.String("database-path", "metmatcanvasbot.db", "path to the database")
	key := flag.String("encryption-key", "please-change-me", "encryption key for the database")
	service := flag.String("service", "", "service name, smtp or canvas")
	login := flag.String("login", "", "login to store")
	flag.Parse()

	if envKey := os.Getenv("ENCRYPTION_KEY"); envKey != "" {
		key = &envKey
	}

	encryptionKey, err := keys.ParseKey([]byte(*key))
	if err != nil {
		log.Fatalf("[ERROR] encryption-key: %s", err)
	}

	switch *service {
	case credentials.ServiceSMTP, credentials.ServiceCanvas:
	default:
		log.Fatalf("[ERROR] service must be %q or %q", credentials.ServiceSMTP, credentials.ServiceCanvas)
	}
	if *login == "" {
		log.Fatalf("[ERROR] login is required")
	}

	fmt.Fprint(os.Stderr, "password: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		log.Fatalf("[ERROR] read password: %s", err)
	}
	password = strings.TrimSpace(password)
	if password == "" {
		log.Fatalf("[ERROR] password is empty")
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath))
	if err != nil {
		log.Fatalf("[ERROR] db: %s", err)
	}
	defer db.Close()

	store := credentials.NewStore(db, encryptionKey)
	if err := store.Insert(context.Background(), &credentials.Credentials{
		ID:       credentials.NewID(),
		Service:  *service,
		Login:    *login,
		Password: password,
	}); err != nil {
		log.Fatalf("[ERROR] insert credentials: %s", err)
	}

	log.Printf("[INFO] stored %s credentials for %s", *service, *login)
}
