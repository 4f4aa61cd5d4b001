package controller

import (
	"fmt"
	"math/rand"
	"time"
)

func (c controller) generateTimeBasedId() string {
	return fmt.Sprintf("%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}
