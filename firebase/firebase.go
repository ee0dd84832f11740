package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"taskmaster-server/utilities"
)

// InitializeFirebase cria o app do Firebase a partir do arquivo de credenciais.
// O app e os clientes vivem até o encerramento do servidor, então não herdam o
// contexto (com prazo) usado na conexão.
func InitializeFirebase(credentialsPath string) (*firebase.App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH não está definido nas variáveis de ambiente")
	}

	opt := option.WithCredentialsFile(credentialsPath)

	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar Firebase: %w", err)
	}

	utilities.LogInfo("Firebase inicializado com sucesso!")
	return app, nil
}

func GetFirestoreClient(credentialsPath string) (*firestore.Client, error) {
	app, err := InitializeFirebase(credentialsPath)
	if err != nil {
		return nil, err
	}
	// Obter o cliente do Firestore a partir do app
	firestoreClient, err := app.Firestore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente do Firestore: %w", err)
	}
	return firestoreClient, nil
}
