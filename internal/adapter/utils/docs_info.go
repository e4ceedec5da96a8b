package utils

//run redis
//docker run -p 6379:6379 -d redis

//firestore emulator
//gcloud emulators firestore start --host-port=localhost:8081
//export FIRESTORE_EMULATOR_HOST=localhost:8081

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
