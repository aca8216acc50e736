package telemetry

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown := Setup(context.Background(), Options{ServiceName: "guardhouse"}, logrus.NewEntry(logrus.New()))
	assert.NoError(t, shutdown(context.Background()))
}
