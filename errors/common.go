package errors

import "fmt"

func InvalidParamsErr(err error) error {
	return E(Invalid, "invalid params", err)
}

func InvalidBodyErr(err error) error {
	return E(Invalid, "invalid request body", err)
}

func ValidationFailedErr(err error) error {
	return E(Invalid, "validation failed", err)
}

func EmptyParamErr(field string) error {
	ve := ValidationErrs()
	ve.Add(field, "cannot be empty")
	return E(Invalid, "validation failed", ve.Err())
}

// NetworkErr wraps a transport failure while calling the payment API
func NetworkErr(err error) error {
	return E(Network, "Network error. Please try again.", err)
}

// ServerErr returns a formatted error for a non-2xx payment API reply.
// msg is what the API said, if anything.
func ServerErr(status int, msg string) error {
	if msg == "" {
		msg = "Server failed. Try again."
	}
	return E(Server, msg, fmt.Errorf("payment api responded with status %d", status))
}

// StorageUnavailableErr wraps a failure of the local transaction store
func StorageUnavailableErr(op string, err error) error {
	return E(Storage, fmt.Sprintf("transaction store unavailable: %s failed", op), err)
}
