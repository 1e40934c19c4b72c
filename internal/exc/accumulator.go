// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"sort"
	"sync"
)

// Reporter accumulates diagnostics during compilation. Stages report what
// they find and keep going unless the reporter says the record is fatal.
// The whole set is shown to the user at the end.
type Reporter interface {
	// Report adds the given record to the set. If this method returns an error
	// then the given error is considered fatal.
	Report(Exception) Exception
	// Reported returns the set of accumulated exceptions.
	Reported() []Exception
}

// NewReporter returns a concurrent-safe implementation of Reporter.
func NewReporter(nonFatal []string) Reporter {
	nf := make(map[string]bool, len(defaultNonFatal))
	for k := range defaultNonFatal {
		nf[k] = true
	}
	for _, k := range nonFatal {
		nf[k] = true
	}
	return &reporterLock{
		Reporter: &reporter{
			nonFatal: nf,
		},
		lock: &sync.Mutex{},
	}
}

type reporter struct {
	reported []Exception
	nonFatal map[string]bool
}

func (r *reporter) Report(e Exception) Exception {
	r.reported = append(r.reported, e)
	if r.nonFatal[e.Code()] {
		return nil
	}
	return e
}

func (r *reporter) Reported() []Exception {
	return r.reported
}

type reporterLock struct {
	Reporter
	lock sync.Locker
}

func (r *reporterLock) Report(e Exception) Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Report(e)
}

func (r *reporterLock) Reported() []Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := r.Reporter.Reported()
	return append([]Exception(nil), out...)
}

// Sorted returns a copy of es ordered by location. Records at the same
// location keep the order they were reported in.
func Sorted(es []Exception) []Exception {
	out := append([]Exception(nil), es...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Location().Less(out[j].Location())
	})
	return out
}

// HasFatal reports whether any record in es carries a fatal code.
func HasFatal(es []Exception) bool {
	for _, e := range es {
		if IsFatal(e.Code()) {
			return true
		}
	}
	return false
}
