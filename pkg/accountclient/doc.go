// Package accountclient is the HTTP implementation of signup.AccountService.
//
// CreateAccount sends the signup form as multipart/form-data to
// {ACCOUNT_SERVICE_URL}{ACCOUNT_SERVICE_SIGNUP_PATH}. Failure statuses such as
// 409 Conflict are returned as responses so the controller can read the "msg"
// field; only transport failures are returned as errors.
//
//	client := accountclient.New(config.NewAccountServiceConfigFromEnv())
//	controller := signup.NewController(signup.WithAccountService(client))
package accountclient
