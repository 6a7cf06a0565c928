package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moyansheep/chengyu-chain-bot/internal/adapter/gamepresenter"
	appcfg "github.com/moyansheep/chengyu-chain-bot/internal/config"
	"github.com/moyansheep/chengyu-chain-bot/internal/dict"
	"github.com/moyansheep/chengyu-chain-bot/internal/game"
	"github.com/moyansheep/chengyu-chain-bot/internal/msgcat"
	"github.com/moyansheep/chengyu-chain-bot/internal/obslog"
	"github.com/moyansheep/chengyu-chain-bot/internal/store"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L().Named("main")

	ix, err := dict.LoadFile(cfg.DictPath)
	if err != nil {
		logger.Fatal("dictionary load failed", zap.Error(err))
	}
	logger.Info("dictionary loaded", zap.Int("idioms", ix.Size()))

	st, err := store.Open(cfg)
	if err != nil {
		logger.Fatal("store init failed", zap.Error(err), zap.String("backend", cfg.StoreBackend))
	}
	defer st.Close()

	gameCfg := game.Config{
		PhoneticFallback: cfg.PhoneticFallback,
		PointsPerChain:   cfg.PointsPerChain,
	}
	if cfg.SeedFixed {
		gameCfg.Rand = rand.New(rand.NewSource(cfg.RandomSeed))
	}
	svc, err := game.NewService(ix, st, gameCfg)
	if err != nil {
		logger.Fatal("game service init failed", zap.Error(err))
	}

	cat, err := msgcat.New(cfg.MsgOverrideDir)
	if err != nil {
		logger.Fatal("message catalog init failed", zap.Error(err))
	}
	formatter := gamepresenter.NewFormatter(cat)

	userID := cfg.UserID
	if userID == "" {
		userID = "guest-" + uuid.NewString()
	}
	logger.Info("session started",
		zap.String("user", userID), zap.String("backend", cfg.StoreBackend))

	fmt.Println(formatter.Menu())
	runREPL(svc, formatter, userID)
}

// runREPL reads one command per line and prints the reply. The command
// set mirrors the chat bot this engine serves.
func runREPL(svc *game.Service, formatter *gamepresenter.Formatter, userID string) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}
		reply, err := dispatch(svc, formatter, userID, line)
		if err != nil {
			obslog.L().Error("command failed", zap.String("input", line), zap.Error(err))
			fmt.Println("系统繁忙，请稍后再试。")
			continue
		}
		if reply != "" {
			fmt.Println(reply)
		}
	}
}

func dispatch(svc *game.Service, formatter *gamepresenter.Formatter, userID, line string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch {
	case line == "#菜单":
		return formatter.Menu(), nil

	case line == "#当前成语":
		current, active, err := svc.Current(ctx, userID)
		if err != nil {
			return "", err
		}
		return formatter.Current(gamepresenter.ToDTOSnapshot(current, active, store.Counters{}, 0)), nil

	case line == "#重置成语":
		seed, err := svc.Reset(ctx, userID)
		if err != nil {
			return "", err
		}
		return formatter.Reset(seed), nil

	case line == "#积分":
		current, active, err := svc.Current(ctx, userID)
		if err != nil {
			return "", err
		}
		counters, score, err := svc.Stats(ctx, userID)
		if err != nil {
			return "", err
		}
		return formatter.Score(gamepresenter.ToDTOSnapshot(current, active, counters, score)), nil

	case strings.HasPrefix(line, "?查词"), strings.HasPrefix(line, "？查词"):
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "?查词"), "？查词"))
		if text == "" {
			return formatter.Menu(), nil
		}
		rec, err := svc.Meaning(text)
		if errors.Is(err, game.ErrNotFound) {
			return formatter.CardNotFound(text), nil
		}
		if err != nil {
			return "", err
		}
		return formatter.Card(gamepresenter.ToDTOCard(rec)), nil

	case strings.HasPrefix(line, "#成语"):
		text := strings.TrimSpace(strings.TrimPrefix(line, "#成语"))
		res, err := svc.Submit(ctx, userID, text)
		if err != nil {
			return "", err
		}
		return formatter.Move(gamepresenter.ToDTOMove(res)), nil

	case strings.HasPrefix(line, "#"):
		// Bare "#马到成功" also counts as a submission.
		res, err := svc.Submit(ctx, userID, strings.TrimPrefix(line, "#"))
		if err != nil {
			return "", err
		}
		return formatter.Move(gamepresenter.ToDTOMove(res)), nil
	}
	return formatter.Menu(), nil
}
