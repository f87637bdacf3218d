package main

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGinMode(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", gin.DebugMode},
		{"DEBUG", gin.DebugMode},
		{" Debug ", gin.DebugMode},
		{"info", gin.ReleaseMode},
		{"", gin.ReleaseMode},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, ginMode(tt.level))
		})
	}
}
