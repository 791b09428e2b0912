// Command blockip manages the request-gate blocklist.
//
//	blockip -add 203.0.113.7
//	blockip -remove 203.0.113.7
package main

import (
	"context"
	"flag"
	"net"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	postgresRepo "github.com/veloxcart/ecommerce-api/internal/adapters/db/postgres"
	lg "github.com/veloxcart/ecommerce-api/internal/infra/log"
)

func main() {
	add := flag.String("add", "", "IP address to block")
	remove := flag.String("remove", "", "IP address to unblock")
	flag.Parse()

	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	ip := *add
	if ip == "" {
		ip = *remove
	}
	if ip == "" || (*add != "" && *remove != "") {
		zapLog.Fatal("provide exactly one of -add or -remove")
	}
	if net.ParseIP(ip) == nil {
		zapLog.Fatal("not a valid IP address", zap.String("ip", ip))
	}

	db, err := gorm.Open(postgres.Open(os.Getenv("DATABASE_URL")), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}

	repo := postgresRepo.NewBlockedIPRepo(db)
	ctx := context.Background()

	if *add != "" {
		created, err := repo.Block(ctx, ip)
		if err != nil {
			zapLog.Fatal("block failed", zap.Error(err))
		}
		if created {
			zapLog.Info("IP blocked", zap.String("ip", ip))
		} else {
			zapLog.Info("IP was already blocked", zap.String("ip", ip))
		}
		return
	}

	if err := repo.Unblock(ctx, ip); err != nil {
		zapLog.Fatal("unblock failed", zap.Error(err))
	}
	zapLog.Info("IP unblocked", zap.String("ip", ip))
}
