// Package mocks provides shared test doubles for the service and store
// interfaces.
//
// Two styles live here. Function-field mocks (MockTokenService,
// MockPasswordVerifier) return canned values unless a Fn field overrides
// them, and record their calls. Testify mocks (TestifyMockTaskStore,
// TestifyMockPrincipalStore) are driven with On(...).Return(...) and
// checked with AssertExpectations.
//
//	tokens := &mocks.MockTokenService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return nil, auth.ErrExpiredToken
//	    },
//	}
package mocks
