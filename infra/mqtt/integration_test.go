package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremqtt "github.com/kilianp07/railplan/core/mqtt"
	"github.com/kilianp07/railplan/internal/testutil"
)

// TestPublishThroughBroker sends a report through a real broker and
// acknowledges it from a second client.
func TestPublishThroughBroker(t *testing.T) {
	testutil.RequireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	broker, cleanup, err := testutil.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("unable to start mosquitto: %v", err)
	}
	defer cleanup()

	received := make(chan coremqtt.Report, 1)
	consumer := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("consumer"))
	token := consumer.Connect()
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())
	defer consumer.Disconnect(100)

	token = consumer.Subscribe("plans", 1, func(c paho.Client, msg paho.Message) {
		var r coremqtt.Report
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			return
		}
		ack, _ := json.Marshal(map[string]string{"message_id": r.MessageID})
		c.Publish("plans/ack", 1, false, ack)
		received <- r
	})
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())

	cli, err := NewPahoClient(Config{Broker: broker, ClientID: "railplan", Topic: "plans", AckTopic: "plans/ack", QoS: map[string]byte{"report": 1, "ack": 1}})
	require.NoError(t, err)
	defer cli.Disconnect()

	// The ack subscription is made in the connect handler.
	time.Sleep(200 * time.Millisecond)
	id, err := cli.Publish(sampleReport())
	require.NoError(t, err)

	select {
	case r := <-received:
		assert.Equal(t, id, r.MessageID)
		assert.Equal(t, "run-1", r.RunID)
	case <-ctx.Done():
		t.Fatal("report not received")
	}
	ok, err := cli.WaitForAck(id, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
