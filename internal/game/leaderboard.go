package game

import (
	"context"
	"log"
	"sort"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKey      = "leaderboard:best"
	leaderboardNamesKey = "leaderboard:names"
)

// LeaderboardEntry is one player's best score.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

// memoryBoard keeps best scores when Redis is not configured.
type memoryBoard struct {
	best  map[int]LeaderboardEntry
	mutex sync.Mutex
}

func newMemoryBoard() *memoryBoard {
	return &memoryBoard{best: make(map[int]LeaderboardEntry)}
}

func (b *memoryBoard) submit(playerID int, name string, score int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if cur, ok := b.best[playerID]; ok && cur.Score >= score {
		return
	}
	b.best[playerID] = LeaderboardEntry{PlayerID: playerID, PlayerName: name, Score: score}
}

func (b *memoryBoard) top(n int) []LeaderboardEntry {
	b.mutex.Lock()
	out := make([]LeaderboardEntry, 0, len(b.best))
	for _, e := range b.best {
		out = append(out, e)
	}
	b.mutex.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if len(out) > n {
		out = out[:n]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// SubmitScore records a finished session's score if it beats the player's best.
func (gm *GameManager) SubmitScore(snap SessionSnapshot) {
	if snap.PlayerID == 0 || snap.Score <= 0 {
		return
	}
	if gm.rdb == nil {
		gm.board.submit(snap.PlayerID, snap.PlayerName, snap.Score)
		return
	}

	ctx := context.Background()
	member := strconv.Itoa(snap.PlayerID)
	if err := gm.rdb.ZAddGT(ctx, leaderboardKey, redis.Z{Score: float64(snap.Score), Member: member}).Err(); err != nil {
		log.Printf("[LEADERBOARD] Failed to submit score for player %d: %v", snap.PlayerID, err)
		return
	}
	if err := gm.rdb.HSet(ctx, leaderboardNamesKey, member, snap.PlayerName).Err(); err != nil {
		log.Printf("[LEADERBOARD] Failed to store name for player %d: %v", snap.PlayerID, err)
	}
}

// TopScores returns the n best players.
func (gm *GameManager) TopScores(n int) ([]LeaderboardEntry, error) {
	if n <= 0 {
		n = 10
	}
	if gm.rdb == nil {
		return gm.board.top(n), nil
	}

	ctx := context.Background()
	zs, err := gm.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	members := make([]string, len(zs))
	for i, z := range zs {
		members[i], _ = z.Member.(string)
	}
	var names []interface{}
	if len(members) > 0 {
		if names, err = gm.rdb.HMGet(ctx, leaderboardNamesKey, members...).Result(); err != nil {
			log.Printf("[LEADERBOARD] Failed to load names: %v", err)
			names = nil
		}
	}

	out := make([]LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		id, _ := strconv.Atoi(members[i])
		e := LeaderboardEntry{Rank: i + 1, PlayerID: id, Score: int(z.Score)}
		if i < len(names) {
			e.PlayerName, _ = names[i].(string)
		}
		out = append(out, e)
	}
	return out, nil
}
