package storage

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockDatabaseInterface - мок для DatabaseInterface
type MockDatabaseInterface struct {
	mock.Mock
}

func (m *MockDatabaseInterface) QueryRow(ctx context.Context, query string, args ...interface{}) Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(Row)
}

func (m *MockDatabaseInterface) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	if mockArgs.Get(0) == nil {
		return nil, mockArgs.Error(1)
	}
	return mockArgs.Get(0).(Rows), mockArgs.Error(1)
}

func (m *MockDatabaseInterface) Exec(ctx context.Context, query string, args ...interface{}) error {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Error(0)
}

func (m *MockDatabaseInterface) BeginTx(ctx context.Context) (Tx, error) {
	mockArgs := m.Called(ctx)
	if mockArgs.Get(0) == nil {
		return nil, mockArgs.Error(1)
	}
	return mockArgs.Get(0).(Tx), mockArgs.Error(1)
}

func (m *MockDatabaseInterface) Health(ctx context.Context) error {
	mockArgs := m.Called(ctx)
	return mockArgs.Error(0)
}

// MockTx - мок для транзакции
type MockTx struct {
	mock.Mock
}

func (m *MockTx) QueryRow(ctx context.Context, query string, args ...interface{}) Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(Row)
}

func (m *MockTx) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(Rows), mockArgs.Error(1)
}

func (m *MockTx) Exec(ctx context.Context, query string, args ...interface{}) error {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Error(0)
}

func (m *MockTx) Commit() error {
	mockArgs := m.Called()
	return mockArgs.Error(0)
}

func (m *MockTx) Rollback() error {
	mockArgs := m.Called()
	return mockArgs.Error(0)
}

// MockCacheInterface - мок для CacheInterface
type MockCacheInterface struct {
	mock.Mock
}

func (m *MockCacheInterface) Get(ctx context.Context, key string) (string, error) {
	mockArgs := m.Called(ctx, key)
	return mockArgs.String(0), mockArgs.Error(1)
}

func (m *MockCacheInterface) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	mockArgs := m.Called(ctx, key, value, ttl)
	return mockArgs.Error(0)
}

func (m *MockCacheInterface) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	mockArgs := m.Called(ctx, key, value, ttl)
	return mockArgs.Bool(0), mockArgs.Error(1)
}

func (m *MockCacheInterface) Del(ctx context.Context, key string) error {
	mockArgs := m.Called(ctx, key)
	return mockArgs.Error(0)
}

func (m *MockCacheInterface) Health(ctx context.Context) error {
	mockArgs := m.Called(ctx)
	return mockArgs.Error(0)
}

// MockMetricsInterface - мок для MetricsInterface
type MockMetricsInterface struct {
	mock.Mock
}

func (m *MockMetricsInterface) IncDBQuery(operation string) {
	m.Called(operation)
}

func (m *MockMetricsInterface) IncCacheHit(cacheType string) {
	m.Called(cacheType)
}

func (m *MockMetricsInterface) IncCacheMiss(cacheType string) {
	m.Called(cacheType)
}

func (m *MockMetricsInterface) ObserveDBQueryDuration(operation string, duration time.Duration) {
	m.Called(operation, duration)
}

// relaxedMetrics возвращает мок метрик, принимающий любые вызовы
func relaxedMetrics() *MockMetricsInterface {
	m := &MockMetricsInterface{}
	m.On("IncDBQuery", mock.Anything).Maybe()
	m.On("IncCacheHit", mock.Anything).Maybe()
	m.On("IncCacheMiss", mock.Anything).Maybe()
	m.On("ObserveDBQueryDuration", mock.Anything, mock.Anything).Maybe()
	return m
}

// assignValues копирует значения строки в указатели Scan
func assignValues(values []interface{}, dest []interface{}) {
	for i, d := range dest {
		if i >= len(values) || values[i] == nil {
			continue
		}
		target := reflect.ValueOf(d).Elem()
		value := reflect.ValueOf(values[i])
		if value.Type().AssignableTo(target.Type()) {
			target.Set(value)
		} else if value.Type().ConvertibleTo(target.Type()) {
			target.Set(value.Convert(target.Type()))
		}
	}
}

// MockRow - фейковая строка для QueryRow
type MockRow struct {
	values []interface{}
	err    error
}

func (r *MockRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	assignValues(r.values, dest)
	return nil
}

// MockRows - мок для Rows
type MockRows struct {
	mock.Mock
	data [][]interface{}
	pos  int
}

func (m *MockRows) Next() bool {
	m.pos++
	return m.pos <= len(m.data)
}

func (m *MockRows) Scan(dest ...interface{}) error {
	if m.pos <= 0 || m.pos > len(m.data) {
		return nil
	}
	assignValues(m.data[m.pos-1], dest)
	return nil
}

func (m *MockRows) Err() error {
	mockArgs := m.Called()
	return mockArgs.Error(0)
}

func (m *MockRows) Close() {
	m.Called()
}

func newMockRows(data ...[]interface{}) *MockRows {
	rows := &MockRows{data: data}
	rows.On("Err").Return(nil).Maybe()
	rows.On("Close").Maybe()
	return rows
}

// queryContains матчит SQL по подстроке
func queryContains(fragment string) interface{} {
	return mock.MatchedBy(func(query string) bool {
		return strings.Contains(query, fragment)
	})
}
