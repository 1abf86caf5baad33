package xerrors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	// nil 错误应返回 nil
	if err := Wrap(nil, "context"); err != nil {
		t.Errorf("Wrap(nil) = %v，期望 nil", err)
	}

	base := errors.New("redis: connection refused")
	wrapped := Wrap(base, "read breaker record")
	if wrapped == nil {
		t.Fatal("Wrap(err) = nil，期望非 nil")
	}
	if wrapped.Error() != "read breaker record: redis: connection refused" {
		t.Errorf("Wrap(err).Error() = %q", wrapped.Error())
	}

	// 应保留错误链
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is(wrapped, base) = false，期望 true")
	}
}

func TestWrapf(t *testing.T) {
	if err := Wrapf(nil, "tier %d", 2); err != nil {
		t.Errorf("Wrapf(nil) = %v，期望 nil", err)
	}

	base := errors.New("not found")
	wrapped := Wrapf(base, "tier %d", 2)
	if wrapped.Error() != "tier 2: not found" {
		t.Errorf("Wrapf(err).Error() = %q，期望 %q", wrapped.Error(), "tier 2: not found")
	}
}

func TestWithCode(t *testing.T) {
	if err := WithCode(nil, "CODE"); err != nil {
		t.Errorf("WithCode(nil) = %v，期望 nil", err)
	}

	base := errors.New("record missing")
	coded := WithCode(base, "STORAGE_UNAVAILABLE")
	if coded.Error() != "[STORAGE_UNAVAILABLE] record missing" {
		t.Errorf("WithCode(err).Error() = %q", coded.Error())
	}

	// GetCode 应能从包装后的错误链中提取错误码
	if code := GetCode(Wrap(coded, "outer")); code != "STORAGE_UNAVAILABLE" {
		t.Errorf("GetCode = %q，期望 %q", code, "STORAGE_UNAVAILABLE")
	}
	if code := GetCode(base); code != "" {
		t.Errorf("GetCode(base) = %q，期望空字符串", code)
	}
}

func TestMust(t *testing.T) {
	if v := Must(42, nil); v != 42 {
		t.Errorf("Must = %d，期望 42", v)
	}

	defer func() {
		if recover() == nil {
			t.Error("Must(err) 应该 panic")
		}
	}()
	Must(0, errors.New("boom"))
}
