package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/tictactoe-learner/internal/entity"
	"github.com/rocketscienceinc/tictactoe-learner/internal/tictactoe"
)

const namespace = "tictactoe"

const (
	resultXWins = "x_wins"
	resultOWins = "o_wins"
	resultTie   = "tie"
)

// Collector records the outcome of training games.
type Collector struct {
	games      *prometheus.CounterVec
	stalled    *prometheus.CounterVec
	gameLength prometheus.Histogram
	memory     *prometheus.GaugeVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	that := &Collector{
		games: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_total",
			Help:      "Finished games by result",
		}, []string{"result"}),
		stalled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stalled_games_total",
			Help:      "Games aborted because an agent had no move",
		}, []string{"player"}),
		gameLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "game_moves",
			Help:      "Number of moves in a finished game",
			Buckets:   prometheus.LinearBuckets(1, 2, 12),
		}),
		memory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_states",
			Help:      "States held in an agent's memory",
		}, []string{"player"}),
	}

	reg.MustRegister(that.games, that.stalled, that.gameLength, that.memory)

	return that
}

func (that *Collector) ObserveGame(result tictactoe.GameResult, moves int) {
	that.games.WithLabelValues(resultLabel(result)).Inc()
	that.gameLength.Observe(float64(moves))
}

func (that *Collector) ObserveStalled(player entity.Player) {
	that.stalled.WithLabelValues(player.String()).Inc()
}

// SetMemorySize reports how many states player's agent remembers.
func (that *Collector) SetMemorySize(player entity.Player, states int) {
	that.memory.WithLabelValues(player.String()).Set(float64(states))
}

func resultLabel(result tictactoe.GameResult) string {
	winner, ok := result.Winner()
	switch {
	case !ok:
		return resultTie
	case winner == entity.PlayerX:
		return resultXWins
	default:
		return resultOWins
	}
}
