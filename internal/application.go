package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/tictactoe-learner/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-learner/internal/bot"
	"github.com/rocketscienceinc/tictactoe-learner/internal/config"
	"github.com/rocketscienceinc/tictactoe-learner/internal/console"
	"github.com/rocketscienceinc/tictactoe-learner/internal/entity"
	"github.com/rocketscienceinc/tictactoe-learner/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-learner/internal/repository"
	"github.com/rocketscienceinc/tictactoe-learner/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-learner/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-learner/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-learner/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunTrain - plays the configured number of self-play games between two bots
// and saves both memories afterwards, also when training was interrupted.
func RunTrain(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app", "mode", "train")

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	if conf.MetricsPort != "" {
		go func() {
			log.Info("Starting metrics server", "port", conf.MetricsPort)
			if err := rest.Start(ctx, conf.MetricsPort, registry); err != nil {
				log.Error("metrics server error", "error", err)
			}
		}()
	}

	memoryRepo, closeRepo, err := newMemoryRepository(ctx, conf)
	if err != nil {
		return err
	}
	defer closeRepo(log)

	rnd := newRandom(conf.Training.Seed)
	agentX := newBot(entity.PlayerX, conf, rnd)
	agentO := newBot(entity.PlayerO, conf, rnd)

	for _, agent := range []*bot.Bot{agentX, agentO} {
		if err = loadMemory(ctx, log, memoryRepo, memoryName(conf, agent.Player()), agent); err != nil {
			return err
		}
	}

	board, err := tictactoe.NewBoard(conf.Board.Rows, conf.Board.Cols)
	if err != nil {
		return fmt.Errorf("could not create board: %w", err)
	}

	manager := usecase.NewGameManager(logger, collector, conf.Training.BatchSize)

	started := time.Now()
	stats, trainErr := manager.Train(ctx, board, agentX, agentO, conf.Training.Games)

	log.Info("Training finished",
		"games", stats.Games,
		"x_wins", stats.XWins,
		"o_wins", stats.OWins,
		"ties", stats.Ties,
		"stalled", stats.Stalled,
		"duration", time.Since(started).String(),
	)

	for _, agent := range []*bot.Bot{agentX, agentO} {
		collector.SetMemorySize(agent.Player(), agent.Len())

		if err = saveMemory(ctx, memoryRepo, memoryName(conf, agent.Player()), agent); err != nil {
			return errors.Join(trainErr, err)
		}
	}

	if trainErr != nil && !errors.Is(trainErr, context.Canceled) {
		return fmt.Errorf("training failed: %w", trainErr)
	}

	return nil
}

// RunPlay - plays one game between a human on in/out and the bot for the other side.
// The bot learns from the game and its memory is saved.
func RunPlay(ctx context.Context, logger *slog.Logger, conf *config.Config, side entity.Player, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app", "mode", "play", "human", side.String())

	memoryRepo, closeRepo, err := newMemoryRepository(ctx, conf)
	if err != nil {
		return err
	}
	defer closeRepo(log)

	opponent := newBot(side.Opponent(), conf, newRandom(conf.Training.Seed))
	name := memoryName(conf, opponent.Player())
	if err = loadMemory(ctx, log, memoryRepo, name, opponent); err != nil {
		return err
	}

	board, err := tictactoe.NewBoard(conf.Board.Rows, conf.Board.Cols)
	if err != nil {
		return fmt.Errorf("could not create board: %w", err)
	}

	human := console.NewHuman(side, in, out)

	var agentX, agentO usecase.Agent = human, opponent
	if side == entity.PlayerO {
		agentX, agentO = opponent, human
	}

	manager := usecase.NewGameManager(logger, nil, 0)
	result, err := manager.PlayOneGame(board, agentX, agentO)

	var stalled *apperror.StalledAgentError
	if errors.As(err, &stalled) && stalled.Player == side {
		fmt.Fprintln(out, "Game abandoned.")
		return nil
	}

	if err != nil {
		return fmt.Errorf("game failed: %w", err)
	}

	console.Render(out, board)
	fmt.Fprintln(out, resultMessage(result))

	if err = saveMemory(ctx, memoryRepo, name, opponent); err != nil {
		return err
	}

	return nil
}

func resultMessage(result tictactoe.GameResult) string {
	if winner, ok := result.Winner(); ok {
		return winner.String() + " Wins!"
	}

	return "TIE!"
}

func newBot(player entity.Player, conf *config.Config, rnd bot.Random) *bot.Bot {
	return bot.New(player, bot.Config{
		DefaultWeight:    conf.Learning.DefaultWeight,
		WinBoost:         conf.Learning.WinBoost,
		WinningMoveBoost: conf.Learning.WinningMoveBoost,
		TieBoost:         conf.Learning.TieBoost,
		LoseBoost:        conf.Learning.LoseBoost,
	}, rnd)
}

func newRandom(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed)) //nolint: gosec // move sampling, not crypto
}

func newMemoryRepository(ctx context.Context, conf *config.Config) (repository.MemoryRepository, func(*slog.Logger), error) {
	if conf.Memory.Store == config.MemoryStoreFile {
		return repository.NewFileMemoryRepository(), func(*slog.Logger) {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeRepo := func(log *slog.Logger) {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewRedisMemoryRepository(redisStorage.Connection), closeRepo, nil
}

func memoryName(conf *config.Config, player entity.Player) string {
	if conf.Memory.Store == config.MemoryStoreRedis {
		return strings.ToLower(player.String())
	}

	if player == entity.PlayerO {
		return conf.Memory.OPath
	}

	return conf.Memory.XPath
}

func loadMemory(ctx context.Context, log *slog.Logger, memoryRepo repository.MemoryRepository, name string, agent *bot.Bot) error {
	data, err := memoryRepo.Load(ctx, name)
	if errors.Is(err, apperror.ErrMemoryNotFound) {
		log.Info("No saved memory, starting empty", "player", agent.Player().String(), "memory", name)
		return nil
	}

	if err != nil {
		return fmt.Errorf("could not load memory for %s: %w", agent.Player(), err)
	}

	if err = agent.Import(data); err != nil {
		return fmt.Errorf("could not import memory for %s: %w", agent.Player(), err)
	}

	log.Info("Memory loaded", "player", agent.Player().String(), "memory", name, "states", agent.Len())

	return nil
}

func saveMemory(ctx context.Context, memoryRepo repository.MemoryRepository, name string, agent *bot.Bot) error {
	data, err := agent.Export()
	if err != nil {
		return fmt.Errorf("could not export memory for %s: %w", agent.Player(), err)
	}

	// a canceled training run still gets saved
	if err = memoryRepo.Save(context.WithoutCancel(ctx), name, data); err != nil {
		return fmt.Errorf("could not save memory for %s: %w", agent.Player(), err)
	}

	return nil
}
