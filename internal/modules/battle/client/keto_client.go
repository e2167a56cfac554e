// Package client 封装对战服务依赖的外部身份与权限服务
package client

import (
	"context"
	"fmt"

	rts "github.com/ory/keto/proto/ory/keto/relation_tuples/v1alpha2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"monster-battle/internal/pkg/xerrors"
)

const (
	// GameMasterNamespace GM 角色所在的命名空间
	GameMasterNamespace = "battle_roles"
	GameMasterObject    = "game_master"
	GameMasterRelation  = "member"
)

// KetoClient Keto 读服务客户端 (gRPC)，用于 GM 权限判断
type KetoClient struct {
	conn        *grpc.ClientConn
	checkClient rts.CheckServiceClient
	readClient  rts.ReadServiceClient
}

// NewKetoClient 创建 Keto 客户端
// readAddr: Keto Read gRPC 地址 (例如: "localhost:4466")
func NewKetoClient(readAddr string) (*KetoClient, error) {
	if readAddr == "" {
		return nil, fmt.Errorf("keto read address cannot be empty")
	}

	conn, err := grpc.Dial(readAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to keto read service: %w", err)
	}

	return &KetoClient{
		conn:        conn,
		checkClient: rts.NewCheckServiceClient(conn),
		readClient:  rts.NewReadServiceClient(conn),
	}, nil
}

// Close 关闭连接
func (k *KetoClient) Close() error {
	if k.conn == nil {
		return nil
	}
	return k.conn.Close()
}

func subjectOf(identityID string) string {
	return fmt.Sprintf("users:%s", identityID)
}

// IsAdmin 身份是否属于 GM 角色
func (k *KetoClient) IsAdmin(ctx context.Context, identityID string) (bool, error) {
	if identityID == "" {
		return false, nil
	}

	resp, err := k.checkClient.Check(ctx, &rts.CheckRequest{
		Namespace: GameMasterNamespace,
		Object:    GameMasterObject,
		Relation:  GameMasterRelation,
		Subject: &rts.Subject{
			Ref: &rts.Subject_Id{Id: subjectOf(identityID)},
		},
	})
	if err != nil {
		return false, xerrors.NewIdentityServiceError("keto_check", err).
			WithService("keto_client", "IsAdmin").
			WithMetadata("identity_id", identityID)
	}
	return resp.Allowed, nil
}

// ListGameMasters 列出 GM 角色的全部成员
func (k *KetoClient) ListGameMasters(ctx context.Context) ([]string, error) {
	resp, err := k.readClient.ListRelationTuples(ctx, &rts.ListRelationTuplesRequest{
		RelationQuery: &rts.RelationQuery{
			Namespace: strPtr(GameMasterNamespace),
			Object:    strPtr(GameMasterObject),
			Relation:  strPtr(GameMasterRelation),
		},
	})
	if err != nil {
		return nil, xerrors.NewIdentityServiceError("keto_list", err).
			WithService("keto_client", "ListGameMasters")
	}

	members := make([]string, 0, len(resp.RelationTuples))
	for _, tuple := range resp.RelationTuples {
		if id := tuple.GetSubject().GetId(); id != "" {
			members = append(members, id)
		}
	}
	return members, nil
}

func strPtr(s string) *string {
	return &s
}
