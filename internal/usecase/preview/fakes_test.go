// Where: internal/usecase/preview/fakes_test.go
// What: Test doubles for workflow collaborators.
package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/poruru/aca-preview/internal/domain/envelope"
	"github.com/poruru/aca-preview/internal/domain/revision"
)

type fakeControlPlane struct {
	snapshot    envelope.Snapshot
	getAppErr   error
	updateErr   error
	revision    revision.Revision
	revisionErr error

	getAppCalls     int
	updateCalls     int
	revisionCalls   int
	deactivateCalls int
	submitted       []envelope.DesiredState
}

func (f *fakeControlPlane) GetApp(_ context.Context, _, _ string) (envelope.Snapshot, error) {
	f.getAppCalls++
	return f.snapshot, f.getAppErr
}

func (f *fakeControlPlane) UpdateAppAndWait(_ context.Context, _, _ string, desired envelope.DesiredState) error {
	f.updateCalls++
	f.submitted = append(f.submitted, desired)
	return f.updateErr
}

func (f *fakeControlPlane) GetRevision(_ context.Context, _, _, name string) (revision.Revision, error) {
	f.revisionCalls++
	if f.revisionErr != nil {
		return revision.Revision{}, f.revisionErr
	}
	rev := f.revision
	if rev.Name == "" {
		rev.Name = name
	}
	return rev, nil
}

func (f *fakeControlPlane) DeactivateRevision(_ context.Context, _, _, _ string) error {
	f.deactivateCalls++
	return nil
}

func (f *fakeControlPlane) calls() int {
	return f.getAppCalls + f.updateCalls + f.revisionCalls + f.deactivateCalls
}

type fakeSink struct {
	outputs  map[string]string
	failures []string
}

func (f *fakeSink) SetOutput(name, value string) error {
	if f.outputs == nil {
		f.outputs = map[string]string{}
	}
	f.outputs[name] = value
	return nil
}

func (f *fakeSink) Fail(msg string) {
	f.failures = append(f.failures, msg)
}

type fakeLedger struct {
	entries []LedgerEntry
	err     error
}

func (f *fakeLedger) Record(_ context.Context, entry LedgerEntry) error {
	f.entries = append(f.entries, entry)
	return f.err
}

type fakeReports struct {
	objects map[string][]byte
}

func (f *fakeReports) Put(_ context.Context, key string, body []byte) error {
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = body
	return nil
}

type fakeVerifier struct {
	err   error
	calls int
}

func (f *fakeVerifier) Verify(_ context.Context, image string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("sha256:%x", len(image)), nil
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
}
