package planner

import (
	"fmt"

	"github.com/google/uuid"
)

//*******************************************
// id generation
//*******************************************

// IIdGenerator produces ids for routes, segments and instructions. Injected
// so tests can assert on generated ids.
type IIdGenerator interface {
	NewID(prefix string) string
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (self *UUIDGenerator) NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// SequenceGenerator yields predictable ids, used in tests.
type SequenceGenerator struct {
	counter int
}

func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

func (self *SequenceGenerator) NewID(prefix string) string {
	self.counter += 1
	return fmt.Sprintf("%s_%v", prefix, self.counter)
}
