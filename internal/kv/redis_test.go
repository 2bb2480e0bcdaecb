// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"
)

func TestNewRedisRequiresAddrs(t *testing.T) {
	if _, err := NewRedis(RedisConfig{}); err == nil {
		t.Fatal("expected error without addrs")
	}
}

func TestRedisGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "personas")).
		Return(mock.Result(mock.RedisString(`[{"nombre":"Ana"}]`)))

	r := newRedisWithClient(c)
	got, err := r.Get(context.Background(), "personas")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `[{"nombre":"Ana"}]` {
		t.Errorf("Get = %s", got)
	}
}

func TestRedisGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "personas")).
		Return(mock.Result(mock.RedisNil()))

	r := newRedisWithClient(c)
	_, err := r.Get(context.Background(), "personas")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "personas")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	r := newRedisWithClient(c)
	_, err := r.Get(context.Background(), "personas")
	var kvErr *Error
	if !errors.As(err, &kvErr) {
		t.Fatalf("expected *kv.Error, got %T", err)
	}
	if kvErr.Op != OpGet {
		t.Errorf("Op = %q, want %q", kvErr.Op, OpGet)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error should wrap DeadlineExceeded, got %v", err)
	}
}

func TestRedisSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "resultadosBusqueda", "[]")).
		Return(mock.Result(mock.RedisString("OK")))

	r := newRedisWithClient(c)
	if err := r.Set(context.Background(), "resultadosBusqueda", []byte("[]")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRedisSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SET"
		})).
		Return(mock.ErrorResult(context.Canceled))

	r := newRedisWithClient(c)
	err := r.Set(context.Background(), "resultadosBusqueda", []byte("[]"))
	var kvErr *Error
	if !errors.As(err, &kvErr) || kvErr.Op != OpSet {
		t.Errorf("expected SET kv.Error, got %v", err)
	}
}
