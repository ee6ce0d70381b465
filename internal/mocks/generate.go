package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name EventFetcher --dir ../usecase --output usecase --outpkg usecasemock --filename event_fetcher_mock.go
