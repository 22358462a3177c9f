package kafka

import (
	"Abode/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

const (
	batchSize     = 32
	batchTimeout  = 1 * time.Second
	maxRetryTimes = 5
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，全部结束后提交最后一条的 offset
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)
		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			ctx := logger.WithTraceID(session.Context(), "kafka-"+m.Topic+"-"+uuid.NewString())
			handleWithRetry(ctx, m, logic)
		}(msg)
	}

	wg.Wait()

	lastMsg := messages[len(messages)-1]
	session.MarkMessage(lastMsg, "")
	session.Commit()
}

// handleWithRetry 指数退避重试，无效消息与超过重试次数的消息直接丢弃
func handleWithRetry(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	retryInterval := 100 * time.Millisecond
	for attempt := 1; ; attempt++ {
		err := logic(ctx, m)
		if err == nil {
			return
		}
		if errors.Is(err, ErrTableMismatch) || errors.Is(err, ErrEmptyData) {
			log.DebugContext(ctx, "skip canal message", "topic", m.Topic, "offset", m.Offset, "err", err)
			return
		}
		if attempt >= maxRetryTimes {
			log.ErrorContext(ctx, "drop message after retries", "topic", m.Topic, "offset", m.Offset, "err", err)
			return
		}

		log.WarnContext(ctx, "process message error", "topic", m.Topic, "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(retryInterval):
		}
		retryInterval *= 2
		if retryInterval > 5*time.Second {
			retryInterval = 5 * time.Second
		}
	}
}

// ToCanalMessage 将kafka消息转换为canal消息结构体
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	return ParseCanalMessage(msg.Value, tableName)
}

func StrToString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func StrToUint64(v interface{}) uint64 {
	n, _ := strconv.ParseUint(StrToString(v), 10, 64)
	return n
}

func StrToInt(v interface{}) int {
	n, _ := strconv.Atoi(StrToString(v))
	return n
}

func StrToFloat(v interface{}) float64 {
	n, _ := strconv.ParseFloat(StrToString(v), 64)
	return n
}

// StrToBool tinyint(1) 在 Canal 中为 "1"/"0"
func StrToBool(v interface{}) bool {
	switch StrToString(v) {
	case "1", "true", "TRUE", "True":
		return true
	}
	return false
}

func StrToDateTime(v interface{}) time.Time {
	s := StrToString(v)
	for _, layout := range []string{time.DateTime, "2006-01-02 15:04:05.000", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
