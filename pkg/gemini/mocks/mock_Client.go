// Package mocks provides test doubles for the gemini client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	"github.com/hederw/nfs-extrator/internal/model"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// ExtractInvoice provides a mock function with given fields: ctx, pngImage, layoutPrompt
func (_m *MockClient) ExtractInvoice(ctx context.Context, pngImage []byte, layoutPrompt string) (*model.InvoiceData, error) {
	ret := _m.Called(ctx, pngImage, layoutPrompt)

	if len(ret) == 0 {
		panic("no return value specified for ExtractInvoice")
	}

	var r0 *model.InvoiceData
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []byte, string) (*model.InvoiceData, error)); ok {
		return rf(ctx, pngImage, layoutPrompt)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []byte, string) *model.InvoiceData); ok {
		r0 = rf(ctx, pngImage, layoutPrompt)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.InvoiceData)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, []byte, string) error); ok {
		r1 = rf(ctx, pngImage, layoutPrompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ExtractDetailedInvoice provides a mock function with given fields: ctx, pngImage
func (_m *MockClient) ExtractDetailedInvoice(ctx context.Context, pngImage []byte) (*model.DetailedInvoiceData, error) {
	ret := _m.Called(ctx, pngImage)

	if len(ret) == 0 {
		panic("no return value specified for ExtractDetailedInvoice")
	}

	var r0 *model.DetailedInvoiceData
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []byte) (*model.DetailedInvoiceData, error)); ok {
		return rf(ctx, pngImage)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []byte) *model.DetailedInvoiceData); ok {
		r0 = rf(ctx, pngImage)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.DetailedInvoiceData)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, []byte) error); ok {
		r1 = rf(ctx, pngImage)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
