package migration

import (
	"sync"
	"testing"
)

func TestHolderZeroValueBeforeSet(t *testing.T) {
	holder := NewHolder()

	report := holder.Report()
	if report != (Report{}) {
		t.Errorf("expected zero-value report before Set, got %+v", report)
	}
}

func TestHolderReturnsCopy(t *testing.T) {
	holder := NewHolder()
	holder.Set(Report{MigrationCompleted: true, NewDBPath: "/data/solostack.db"})

	first := holder.Report()
	first.MigrationCompleted = false
	first.NewDBPath = "mutated"

	second := holder.Report()
	if !second.MigrationCompleted || second.NewDBPath != "/data/solostack.db" {
		t.Errorf("holder state leaked through returned copy: %+v", second)
	}
}

func TestHolderConcurrentReads(t *testing.T) {
	holder := NewHolder()
	holder.Set(Report{MigrationCompleted: true})

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !holder.Report().MigrationCompleted {
				t.Error("unexpected report under concurrent reads")
			}
		}()
	}
	wg.Wait()
}
