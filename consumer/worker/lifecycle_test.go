package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nimbuslabs/nimbus-vps-service/config"
	"github.com/nimbuslabs/nimbus-vps-service/entity"
	"github.com/nimbuslabs/nimbus-vps-service/infra"
	"github.com/nimbuslabs/nimbus-vps-service/infra/produce"
	"github.com/nimbuslabs/nimbus-vps-service/repository"
)

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func newTestConsumer(t *testing.T) (*LifecycleConsumer, *repository.Repository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.VpsLifecycleEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.EnvConfig{}
	infraSet := &infra.Infra{
		Postgres: &infra.PostgresClient{DB: db},
		Logger:   infra.InitLoggerClient(cfg),
	}
	repo := repository.InitRepository(infraSet)
	return NewLifecycleConsumer(nil, infraSet, repo), repo
}

func TestHandleLifecycleEventPersistsAndAcks(t *testing.T) {
	consumer, repo := newTestConsumer(t)

	instanceID := uuid.New()
	message := produce.LifecycleEventMessage{
		InstanceID: instanceID.String(),
		UserID:     uuid.NewString(),
		ServerName: "web-01",
		Action:     entity.LifecycleActionPowerOn,
		Status:     entity.StatusOn,
		Timestamp:  time.Now().Unix(),
	}
	body, err := json.Marshal(message)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	ack := &fakeAcknowledger{}
	consumer.handleLifecycleEvent(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         body,
	})

	if !ack.acked {
		t.Error("message was not acked")
	}
	if ack.nacked {
		t.Error("message was nacked")
	}

	events, err := repo.LifecycleEventRepo.FindByInstanceID(instanceID)
	if err != nil {
		t.Fatalf("FindByInstanceID: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Action != entity.LifecycleActionPowerOn || events[0].Status != entity.StatusOn {
		t.Errorf("event = %+v", events[0])
	}
	if len(events[0].Payload) == 0 {
		t.Error("raw payload was not stored")
	}
}

func TestHandleLifecycleEventRejectsMalformedBody(t *testing.T) {
	consumer, _ := newTestConsumer(t)

	ack := &fakeAcknowledger{}
	consumer.handleLifecycleEvent(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte("not json"),
	})

	if ack.acked {
		t.Error("malformed body was acked")
	}
	if !ack.nacked || ack.requeue {
		t.Errorf("malformed body: nacked=%v requeue=%v, want nacked without requeue", ack.nacked, ack.requeue)
	}
}

func TestHandleLifecycleEventRejectsBadIDs(t *testing.T) {
	consumer, _ := newTestConsumer(t)

	body, _ := json.Marshal(produce.LifecycleEventMessage{
		InstanceID: "not-a-uuid",
		UserID:     uuid.NewString(),
		Action:     entity.LifecycleActionCreated,
		Status:     entity.StatusPending,
		Timestamp:  time.Now().Unix(),
	})

	ack := &fakeAcknowledger{}
	consumer.handleLifecycleEvent(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         body,
	})

	if !ack.nacked || ack.requeue {
		t.Errorf("bad instance id: nacked=%v requeue=%v, want nacked without requeue", ack.nacked, ack.requeue)
	}
}
